package payment

import (
	"context"
	"strings"
	"sync"

	"portfolio/models"

	"github.com/google/uuid"
)

// LocalGateway issues order ids without a remote provider. It is used when no
// Stripe key is configured and in tests.
type LocalGateway struct {
	mu     sync.Mutex
	orders []models.GatewayOrderRequest
}

func NewLocalGateway() *LocalGateway {
	return &LocalGateway{}
}

func (g *LocalGateway) CreateOrder(_ context.Context, req models.GatewayOrderRequest) (*models.GatewayOrder, error) {
	g.mu.Lock()
	g.orders = append(g.orders, req)
	g.mu.Unlock()

	return &models.GatewayOrder{
		ID:       "order_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		Amount:   req.Amount,
		Currency: strings.ToUpper(req.Currency),
	}, nil
}

// Orders returns the requests seen so far.
func (g *LocalGateway) Orders() []models.GatewayOrderRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.GatewayOrderRequest(nil), g.orders...)
}
