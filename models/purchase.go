package models

import "time"

// PurchaseStatus is the lifecycle state of a purchase.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "Pending"
	PurchaseCompleted PurchaseStatus = "Completed"
	PurchaseFailed    PurchaseStatus = "Failed"
	PurchaseRefunded  PurchaseStatus = "Refunded"
)

// DownloadLink is a single-use, time-boxed credential. Only the SHA-256 of the
// token is stored.
type DownloadLink struct {
	TokenHash string    `bson:"tokenHash" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	Used      bool      `bson:"used" json:"used"`
}

// Purchase records a paid digital resource.
type Purchase struct {
	ID             string         `bson:"id" json:"id"`
	ResourceID     string         `bson:"resourceId" json:"resourceId"`
	UserID         string         `bson:"userId,omitempty" json:"userId,omitempty"`
	CustomerInfo   CustomerInfo   `bson:"customerInfo" json:"customerInfo"`
	PaymentID      string         `bson:"paymentId" json:"paymentId"`
	PaymentOrderID string         `bson:"paymentOrderId" json:"paymentOrderId"`
	Amount         float64        `bson:"amount" json:"amount"`
	Currency       string         `bson:"currency" json:"currency"`
	Status         PurchaseStatus `bson:"status" json:"status"`
	DownloadCount  int            `bson:"downloadCount" json:"downloadCount"`
	MaxDownloads   int            `bson:"maxDownloads" json:"maxDownloads"`
	ExpiresAt      time.Time      `bson:"expiresAt" json:"expiresAt"`
	DownloadLinks  []DownloadLink `bson:"downloadLinks" json:"downloadLinks"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// OrderRequest asks for a gateway order for a resource.
type OrderRequest struct {
	ResourceID   string       `json:"resourceId" binding:"required"`
	CustomerInfo CustomerInfo `json:"customerInfo" binding:"required"`
}

// OrderCreated describes a gateway order for a resource purchase.
type OrderCreated struct {
	OrderID  string           `json:"orderId"`
	Amount   int64            `json:"amount"`
	Currency string           `json:"currency"`
	Resource *ResourceSummary `json:"resource"`
}

// PurchaseVerification is the signed confirmation of a resource payment.
type PurchaseVerification struct {
	PaymentConfirmation
	ResourceID   string       `json:"resourceId" binding:"required"`
	CustomerInfo CustomerInfo `json:"customerInfo" binding:"required"`
	UserID       string       `json:"-"`
}

// PurchaseReceipt is returned after a verified payment.
type PurchaseReceipt struct {
	PurchaseID    string `json:"purchaseId"`
	DownloadToken string `json:"downloadToken"`
	DownloadURL   string `json:"downloadUrl"`
}

// PurchaseView is a purchase with its resource summary embedded.
type PurchaseView struct {
	Purchase
	Resource *ResourceSummary `json:"resource,omitempty"`
}

// Redemption is the outcome of a successful token redemption.
type Redemption struct {
	PurchaseID    string
	DownloadCount int
	FileURL       string
}
