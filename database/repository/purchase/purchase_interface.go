package purchaseRepo

import (
	"context"
	"errors"
	"time"

	"portfolio/models"
)

var (
	// ErrDuplicatePayment is returned by Create when the payment id is already recorded.
	ErrDuplicatePayment = errors.New("purchase already recorded for payment")
	// ErrNotRedeemable is returned by Redeem when no link matched the redemption guard.
	ErrNotRedeemable = errors.New("download link not redeemable")
)

// PurchaseRepository defines purchase data access.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Purchase, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Purchase, error)
	AppendDownloadLink(ctx context.Context, purchaseID string, link models.DownloadLink) (*models.Purchase, error)
	// Redeem marks the link used and increments downloadCount in one write,
	// guarded by: link unused and unexpired, purchase Completed and unexpired,
	// downloadCount < maxDownloads.
	Redeem(ctx context.Context, tokenHash string, at time.Time) (*models.Purchase, error)
	Find(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error)
}
