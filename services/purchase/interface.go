package purchase

import (
	"context"
	"time"

	catalogRepo "portfolio/database/repository/catalog"
	purchaseRepo "portfolio/database/repository/purchase"
	"portfolio/models"
	"portfolio/services/payment"

	"go.uber.org/zap"
)

// PurchaseService sells digital resources and redeems their download links.
type PurchaseService interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderCreated, error)
	VerifyPayment(ctx context.Context, req models.PurchaseVerification) (*models.PurchaseReceipt, error)
	CompleteGatewayPayment(ctx context.Context, p models.GatewayPayment) error
	Redeem(ctx context.Context, token string) (*models.Redemption, error)
	ListForCustomer(ctx context.Context, actor models.Actor) ([]models.PurchaseView, error)
}

// FileLocator turns a stored file reference into a URL the client can fetch.
type FileLocator interface {
	FileURL(ctx context.Context, file models.ResourceFile) (string, error)
}

// Events receives side effects of committed purchases.
type Events interface {
	PurchaseCompleted(ctx context.Context, p *models.Purchase, r *models.Resource, downloadURL string) error
}

// Policy holds the purchase rules read from configuration.
type Policy struct {
	ClientURL    string
	LinkTTL      time.Duration
	PurchaseTTL  time.Duration
	MaxDownloads int
}

// DefaultPurchaseService implements PurchaseService.
type DefaultPurchaseService struct {
	Repo     purchaseRepo.PurchaseRepository
	Catalog  catalogRepo.CatalogRepository
	Gateway  payment.OrderGateway
	Verifier *payment.SignatureVerifier
	Files    FileLocator
	Events   Events
	Policy   Policy
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewPurchaseService fills unset optional collaborators with defaults.
func NewPurchaseService(svc DefaultPurchaseService) *DefaultPurchaseService {
	s := svc
	if s.Files == nil {
		s.Files = plainFiles{}
	}
	if s.Events == nil {
		s.Events = noopEvents{}
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Policy.MaxDownloads <= 0 {
		s.Policy.MaxDownloads = 5
	}
	if s.Policy.LinkTTL == 0 {
		s.Policy.LinkTTL = 24 * time.Hour
	}
	if s.Policy.PurchaseTTL == 0 {
		s.Policy.PurchaseTTL = 30 * 24 * time.Hour
	}
	return &s
}

var _ PurchaseService = (*DefaultPurchaseService)(nil)

type plainFiles struct{}

func (plainFiles) FileURL(_ context.Context, file models.ResourceFile) (string, error) {
	return file.URL, nil
}

type noopEvents struct{}

func (noopEvents) PurchaseCompleted(context.Context, *models.Purchase, *models.Resource, string) error {
	return nil
}
