package purchase

import (
	"context"
	"strings"

	"portfolio/models"
	"portfolio/utils"
)

// ListForCustomer returns the actor's purchases, newest first, with resource summaries.
func (s *DefaultPurchaseService) ListForCustomer(ctx context.Context, actor models.Actor) ([]models.PurchaseView, error) {
	if actor.UserID == "" && actor.Email == "" {
		return nil, utils.NewError(utils.KindUnauthorized, "Authentication required")
	}
	purchases, err := s.Repo.Find(ctx, models.PurchaseFilter{
		UserID: actor.UserID,
		Email:  strings.ToLower(strings.TrimSpace(actor.Email)),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(purchases))
	for _, p := range purchases {
		ids = append(ids, p.ResourceID)
	}
	resources, err := s.Catalog.GetResourcesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PurchaseView, 0, len(purchases))
	for _, p := range purchases {
		view := models.PurchaseView{Purchase: p}
		if r, ok := resources[p.ResourceID]; ok {
			view.Resource = r.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}
