package purchase

import (
	"context"
	"errors"
	"strings"

	purchaseRepo "portfolio/database/repository/purchase"
	"portfolio/models"
	"portfolio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenBytes = 32

// VerifyPayment records the purchase behind a signed payment and issues a
// download link. Replaying a verified payment issues a fresh link on the same
// purchase instead of recording a second one.
func (s *DefaultPurchaseService) VerifyPayment(ctx context.Context, req models.PurchaseVerification) (*models.PurchaseReceipt, error) {
	if !s.Verifier.Verify(req.PaymentConfirmation) {
		s.Logger.Warn("purchase payment signature rejected", zap.String("orderId", req.OrderID))
		return nil, utils.NewError(utils.KindInvalidSignature, "Invalid payment signature")
	}

	resource, err := s.Catalog.GetResourceByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	return s.record(ctx, resource, req.OrderID, req.PaymentID, normalizeCustomer(req.CustomerInfo), req.UserID, true)
}

// CompleteGatewayPayment records a purchase reported by an authenticated
// webhook. A payment that was already recorded is left untouched.
func (s *DefaultPurchaseService) CompleteGatewayPayment(ctx context.Context, p models.GatewayPayment) error {
	resourceID := p.Notes["resourceId"]
	if resourceID == "" {
		return utils.InvalidInput("Payment is not linked to a resource")
	}
	resource, err := s.Catalog.GetResourceByID(ctx, resourceID)
	if err != nil {
		return err
	}
	customer := normalizeCustomer(models.CustomerInfo{
		Name:  p.Notes["customerName"],
		Email: p.Notes["customerEmail"],
	})
	_, err = s.record(ctx, resource, p.OrderID, p.PaymentID, customer, "", false)
	return err
}

// record inserts the purchase with its first link. When the payment id is
// already recorded it re-issues a link if reissue is set.
func (s *DefaultPurchaseService) record(ctx context.Context, resource *models.Resource, orderID, paymentID string,
	customer models.CustomerInfo, userID string, reissue bool) (*models.PurchaseReceipt, error) {
	now := s.Now()
	token, link, err := s.newLink()
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		ID:             uuid.New().String(),
		ResourceID:     resource.ID,
		UserID:         userID,
		CustomerInfo:   customer,
		PaymentID:      paymentID,
		PaymentOrderID: orderID,
		Amount:         resource.Price,
		Currency:       resource.Currency,
		Status:         models.PurchaseCompleted,
		MaxDownloads:   s.Policy.MaxDownloads,
		ExpiresAt:      now.Add(s.Policy.PurchaseTTL),
		DownloadLinks:  []models.DownloadLink{link},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.Repo.Create(ctx, purchase)
	if errors.Is(err, purchaseRepo.ErrDuplicatePayment) {
		existing, err := s.Repo.GetByPaymentID(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		if existing.ResourceID != resource.ID || existing.PaymentOrderID != orderID {
			return nil, utils.InvalidInput("Payment is already recorded for another order")
		}
		if !reissue {
			return &models.PurchaseReceipt{PurchaseID: existing.ID}, nil
		}
		if _, err := s.Repo.AppendDownloadLink(ctx, existing.ID, link); err != nil {
			return nil, err
		}
		s.Logger.Info("download link re-issued", zap.String("purchaseId", existing.ID))
		return s.receipt(existing.ID, token), nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.Catalog.IncrementResourceDownloads(ctx, resource.ID); err != nil {
		s.Logger.Error("failed to increment resource downloads", zap.String("resourceId", resource.ID), zap.Error(err))
	}

	receipt := s.receipt(purchase.ID, token)
	if err := s.Events.PurchaseCompleted(ctx, purchase, resource, receipt.DownloadURL); err != nil {
		s.Logger.Error("failed to enqueue purchase confirmation", zap.String("purchaseId", purchase.ID), zap.Error(err))
	}

	s.Logger.Info("purchase recorded", zap.String("purchaseId", purchase.ID), zap.String("resourceId", resource.ID))
	return receipt, nil
}

// newLink creates a random token and the stored link holding only its hash.
func (s *DefaultPurchaseService) newLink() (string, models.DownloadLink, error) {
	token, err := utils.GenerateSecureToken(tokenBytes)
	if err != nil {
		return "", models.DownloadLink{}, err
	}
	now := s.Now()
	return token, models.DownloadLink{
		TokenHash: utils.HashToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.Policy.LinkTTL),
	}, nil
}

func (s *DefaultPurchaseService) receipt(purchaseID, token string) *models.PurchaseReceipt {
	return &models.PurchaseReceipt{
		PurchaseID:    purchaseID,
		DownloadToken: token,
		DownloadURL:   s.downloadURL(token),
	}
}

func (s *DefaultPurchaseService) downloadURL(token string) string {
	return strings.TrimRight(s.Policy.ClientURL, "/") + "/download/" + token
}
