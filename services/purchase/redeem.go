package purchase

import (
	"context"
	"errors"

	purchaseRepo "portfolio/database/repository/purchase"
	"portfolio/models"
	"portfolio/utils"

	"go.uber.org/zap"
)

const invalidLinkMessage = "Invalid or expired download link"

// Redeem consumes a download token and returns the file to deliver. The link
// is marked used and the download counted in one guarded write, so a token
// never succeeds twice and maxDownloads is never exceeded.
func (s *DefaultPurchaseService) Redeem(ctx context.Context, token string) (*models.Redemption, error) {
	if token == "" {
		return nil, utils.NotFound(invalidLinkMessage)
	}
	hash := utils.HashToken(token)

	owner, err := s.Repo.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NotFound(invalidLinkMessage)
		}
		return nil, err
	}
	resources, err := s.Catalog.GetResourcesByIDs(ctx, []string{owner.ResourceID})
	if err != nil {
		return nil, err
	}
	resource, ok := resources[owner.ResourceID]
	if !ok {
		return nil, utils.NotFound("Resource not found")
	}

	// A link is only consumed once there is a file to hand out.
	url, err := s.Files.FileURL(ctx, resource.File)
	if err != nil {
		s.Logger.Error("failed to resolve file url", zap.String("resourceId", resource.ID), zap.Error(err))
		return nil, err
	}

	redeemed, err := s.Repo.Redeem(ctx, hash, s.Now())
	if errors.Is(err, purchaseRepo.ErrNotRedeemable) {
		return nil, s.explainUnredeemable(ctx, hash)
	}
	if err != nil {
		return nil, err
	}

	s.Logger.Info("download link redeemed",
		zap.String("purchaseId", redeemed.ID), zap.Int("downloadCount", redeemed.DownloadCount))
	return &models.Redemption{
		PurchaseID:    redeemed.ID,
		DownloadCount: redeemed.DownloadCount,
		FileURL:       url,
	}, nil
}

// explainUnredeemable classifies a redemption that lost its guard.
func (s *DefaultPurchaseService) explainUnredeemable(ctx context.Context, hash string) error {
	p, err := s.Repo.GetByTokenHash(ctx, hash)
	if err != nil {
		return utils.NotFound(invalidLinkMessage)
	}
	now := s.Now()
	var link *models.DownloadLink
	for i := range p.DownloadLinks {
		if p.DownloadLinks[i].TokenHash == hash {
			link = &p.DownloadLinks[i]
			break
		}
	}
	switch {
	case link == nil || link.Used || p.Status != models.PurchaseCompleted:
		return utils.NotFound(invalidLinkMessage)
	case !link.ExpiresAt.After(now) || !p.ExpiresAt.After(now):
		return utils.NewError(utils.KindExpired, invalidLinkMessage)
	case p.DownloadCount >= p.MaxDownloads:
		return utils.NewError(utils.KindLimitExceeded, "Download limit exceeded")
	default:
		return utils.NotFound(invalidLinkMessage)
	}
}
