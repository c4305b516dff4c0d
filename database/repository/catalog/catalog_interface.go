package catalogRepo

import (
	"context"

	"portfolio/models"
)

// CatalogRepository is the booking core's read view of the service and
// resource catalog. The only writes are the two counters.
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	GetServicesByIDs(ctx context.Context, ids []string) (map[string]*models.Service, error)
	IncrementServiceBookings(ctx context.Context, id string) error

	GetResourceByID(ctx context.Context, id string) (*models.Resource, error)
	GetResourcesByIDs(ctx context.Context, ids []string) (map[string]*models.Resource, error)
	IncrementResourceDownloads(ctx context.Context, id string) error
}
