package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	purchaseRepo "portfolio/database/repository/purchase"
	"portfolio/models"
	"portfolio/utils"
)

// PurchaseStore is an in-memory PurchaseRepository.
type PurchaseStore struct {
	mu        sync.Mutex
	purchases map[string]*models.Purchase
}

var _ purchaseRepo.PurchaseRepository = (*PurchaseStore)(nil)

func NewPurchaseStore() *PurchaseStore {
	return &PurchaseStore{purchases: make(map[string]*models.Purchase)}
}

func clonePurchase(p *models.Purchase) *models.Purchase {
	cp := *p
	cp.DownloadLinks = append([]models.DownloadLink(nil), p.DownloadLinks...)
	return &cp
}

func (s *PurchaseStore) Create(_ context.Context, purchase *models.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.purchases {
		if p.PaymentID == purchase.PaymentID {
			return purchaseRepo.ErrDuplicatePayment
		}
	}
	s.purchases[purchase.ID] = clonePurchase(purchase)
	return nil
}

func (s *PurchaseStore) GetByPaymentID(_ context.Context, paymentID string) (*models.Purchase, error) {
	return s.findOne(func(p *models.Purchase) bool { return p.PaymentID == paymentID })
}

func (s *PurchaseStore) GetByTokenHash(_ context.Context, tokenHash string) (*models.Purchase, error) {
	return s.findOne(func(p *models.Purchase) bool { return linkIndex(p, tokenHash) >= 0 })
}

func (s *PurchaseStore) findOne(match func(p *models.Purchase) bool) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.purchases {
		if match(p) {
			return clonePurchase(p), nil
		}
	}
	return nil, utils.NotFound("Purchase not found")
}

func linkIndex(p *models.Purchase, tokenHash string) int {
	for i, l := range p.DownloadLinks {
		if l.TokenHash == tokenHash {
			return i
		}
	}
	return -1
}

func (s *PurchaseStore) AppendDownloadLink(_ context.Context, purchaseID string, link models.DownloadLink) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.purchases[purchaseID]
	if !ok {
		return nil, utils.NotFound("Purchase not found")
	}
	p.DownloadLinks = append(p.DownloadLinks, link)
	p.UpdatedAt = link.CreatedAt
	return clonePurchase(p), nil
}

func (s *PurchaseStore) Redeem(_ context.Context, tokenHash string, at time.Time) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.purchases {
		i := linkIndex(p, tokenHash)
		if i < 0 {
			continue
		}
		link := p.DownloadLinks[i]
		if p.Status != models.PurchaseCompleted || !p.ExpiresAt.After(at) ||
			link.Used || !link.ExpiresAt.After(at) || p.DownloadCount >= p.MaxDownloads {
			return nil, purchaseRepo.ErrNotRedeemable
		}
		p.DownloadLinks[i].Used = true
		p.DownloadCount++
		p.UpdatedAt = at
		return clonePurchase(p), nil
	}
	return nil, purchaseRepo.ErrNotRedeemable
}

func (s *PurchaseStore) Find(_ context.Context, f models.PurchaseFilter) ([]models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Purchase{}
	if f.UserID == "" && f.Email == "" {
		return out, nil
	}
	for _, p := range s.purchases {
		if (f.UserID != "" && p.UserID == f.UserID) || (f.Email != "" && p.CustomerInfo.Email == f.Email) {
			out = append(out, *clonePurchase(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
