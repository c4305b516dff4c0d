package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending     BookingStatus = "Pending"
	BookingConfirmed   BookingStatus = "Confirmed"
	BookingInProgress  BookingStatus = "In Progress"
	BookingCompleted   BookingStatus = "Completed"
	BookingCancelled   BookingStatus = "Cancelled"
	BookingRescheduled BookingStatus = "Rescheduled"
)

// PaymentStatus tracks the gateway side of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// ActiveBookingStatuses hold their slot; at most one booking per (service, time) may be in one of them.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// CoveredHours returns every hour slot start from the booking's start up to its end.
func (b *Booking) CoveredHours() []time.Time {
	minutes := b.Duration
	if minutes <= 0 {
		minutes = 60
	}
	end := b.ScheduledDateTime.Add(time.Duration(minutes) * time.Minute)
	var hours []time.Time
	for t := b.ScheduledDateTime.UTC(); t.Before(end); t = t.Add(time.Hour) {
		hours = append(hours, t)
	}
	return hours
}

// IsActive reports whether the status reserves the slot.
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking represents a reservation of one service slot.
type Booking struct {
	ID                string        `bson:"id" json:"id"`
	ServiceID         string        `bson:"serviceId" json:"serviceId"`
	UserID            string        `bson:"userId,omitempty" json:"userId,omitempty"`
	CustomerInfo      CustomerInfo  `bson:"customerInfo" json:"customerInfo"`
	ScheduledDateTime time.Time     `bson:"scheduledDateTime" json:"scheduledDateTime"`
	Duration          int           `bson:"duration" json:"duration"` // minutes
	Status            BookingStatus `bson:"status" json:"status"`
	PaymentStatus     PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentOrderID    string        `bson:"paymentOrderId" json:"paymentOrderId"`
	PaymentID         string        `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Amount            float64       `bson:"amount" json:"amount"`
	Currency          string        `bson:"currency" json:"currency"`
	MeetingLink       string        `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	Requirements      []string      `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Notes             string        `bson:"notes,omitempty" json:"notes,omitempty"`
	// Active mirrors Status.IsActive(); the unique slot index is partial on it.
	Active       bool        `bson:"active" json:"-"`
	// HeldHours are the hour slots the booking blocks; unique per service while active.
	HeldHours    []time.Time `bson:"heldHours" json:"-"`
	CancelledAt  *time.Time  `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancelReason string      `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	ConfirmedAt  *time.Time  `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// BookingRequest is the input of the booking create operation.
type BookingRequest struct {
	ServiceID         string       `json:"serviceId" binding:"required"`
	ScheduledDateTime time.Time    `json:"scheduledDateTime" binding:"required"`
	CustomerInfo      CustomerInfo `json:"customerInfo" binding:"required"`
	Requirements      []string     `json:"requirements"`
	// UserID is taken from the bearer token, never from the body.
	UserID string `json:"-"`
}

// PaymentConfirmation is a signed callback proving that a gateway order was paid.
type PaymentConfirmation struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// BookingPaymentConfirmation binds a confirmation to the booking it pays for.
type BookingPaymentConfirmation struct {
	BookingID string `json:"bookingId" binding:"required"`
	PaymentConfirmation
}

// BookingCreated is returned to the client after a booking is reserved.
type BookingCreated struct {
	Booking      *Booking     `json:"booking"`
	GatewayOrder GatewayOrder `json:"gatewayOrder"`
}

// BookingView is a booking with its service summary embedded.
type BookingView struct {
	Booking
	Service *ServiceSummary `json:"service,omitempty"`
}

// Actor identifies the authenticated caller.
type Actor struct {
	UserID string
	Email  string
}

// OwnsBooking reports whether the actor may act on b as its owner.
func (a Actor) OwnsBooking(b *Booking) bool {
	if a.UserID != "" && b.UserID != "" && a.UserID == b.UserID {
		return true
	}
	return a.Email != "" && equalFoldEmail(a.Email, b.CustomerInfo.Email)
}
