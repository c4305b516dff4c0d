package purchase

import (
	"context"
	"errors"
	"strings"

	"portfolio/models"
	"portfolio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrder opens a gateway order for a resource. No purchase is recorded
// until the payment is verified.
func (s *DefaultPurchaseService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderCreated, error) {
	customer := normalizeCustomer(req.CustomerInfo)
	if customer.Name == "" || customer.Email == "" {
		return nil, utils.InvalidInput("Customer name and email are required")
	}

	resource, err := s.Catalog.GetResourceByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	receipt := "resource_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	order, err := s.Gateway.CreateOrder(ctx, models.GatewayOrderRequest{
		Amount:   utils.ToMinorUnits(resource.Price),
		Currency: resource.Currency,
		Receipt:  receipt,
		Kind:     models.OrderKindResource,
		Notes: map[string]string{
			"resourceId":    resource.ID,
			"resourceTitle": resource.Title,
			"customerName":  customer.Name,
			"customerEmail": customer.Email,
		},
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, utils.WrapError(utils.KindGateway, "Unable to create payment order", err)
	}

	s.Logger.Info("resource order created", zap.String("resourceId", resource.ID), zap.String("orderId", order.ID))
	return &models.OrderCreated{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Resource: resource.Summary(),
	}, nil
}

func normalizeCustomer(c models.CustomerInfo) models.CustomerInfo {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}
