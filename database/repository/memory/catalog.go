package memoryRepo

import (
	"context"
	"sync"

	catalogRepo "portfolio/database/repository/catalog"
	"portfolio/models"
	"portfolio/utils"
)

// CatalogStore is an in-memory CatalogRepository seeded by the caller.
type CatalogStore struct {
	mu        sync.Mutex
	services  map[string]*models.Service
	resources map[string]*models.Resource
}

var _ catalogRepo.CatalogRepository = (*CatalogStore)(nil)

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		services:  make(map[string]*models.Service),
		resources: make(map[string]*models.Resource),
	}
}

// PutService inserts or replaces a service.
func (s *CatalogStore) PutService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = &svc
}

// PutResource inserts or replaces a resource.
func (s *CatalogStore) PutResource(res models.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[res.ID] = &res
}

func (s *CatalogStore) GetServiceByID(_ context.Context, id string) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok || !svc.IsActive {
		return nil, utils.NotFound("Service not found")
	}
	cp := *svc
	return &cp, nil
}

func (s *CatalogStore) GetServicesByIDs(_ context.Context, ids []string) (map[string]*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*models.Service, len(ids))
	for _, id := range ids {
		if svc, ok := s.services[id]; ok {
			cp := *svc
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *CatalogStore) IncrementServiceBookings(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok {
		return utils.NotFound("Service not found")
	}
	svc.TotalBookings++
	return nil
}

func (s *CatalogStore) GetResourceByID(_ context.Context, id string) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.resources[id]
	if !ok || !res.IsActive {
		return nil, utils.NotFound("Resource not found")
	}
	cp := *res
	return &cp, nil
}

func (s *CatalogStore) GetResourcesByIDs(_ context.Context, ids []string) (map[string]*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*models.Resource, len(ids))
	for _, id := range ids {
		if res, ok := s.resources[id]; ok {
			cp := *res
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *CatalogStore) IncrementResourceDownloads(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.resources[id]
	if !ok {
		return utils.NotFound("resources not found")
	}
	res.Downloads++
	return nil
}
