package models

// GatewayOrder is the remote payment intent created for a booking or purchase.
// Amount is in the smallest currency unit.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// OrderKind tells webhook handling what an order pays for.
type OrderKind string

const (
	OrderKindBooking  OrderKind = "booking"
	OrderKindResource OrderKind = "resource"
)

// GatewayOrderRequest is the input of the gateway adapter.
type GatewayOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Kind     OrderKind
	Notes    map[string]string
}

// GatewayPayment is a payment reported by a verified gateway webhook.
type GatewayPayment struct {
	OrderID   string
	PaymentID string
	Kind      OrderKind
	Notes     map[string]string
}
