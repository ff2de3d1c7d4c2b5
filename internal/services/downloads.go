package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
	"github.com/dmitrijs2005/qfvjug/internal/search"
)

// DownloadService serves the public download page.
type DownloadService struct {
	downloads *repositories.Downloads
	gate      Gate
	resolver  Resolver
	logger    logging.Logger
}

func NewDownloadService(downloads *repositories.Downloads, gate Gate, resolver Resolver, logger logging.Logger) *DownloadService {
	return &DownloadService{downloads: downloads, gate: gate, resolver: resolver, logger: logger}
}

func (s *DownloadService) List(ctx context.Context) []models.DownloadItem {
	return s.downloads.GetVisible(ctx)
}

func (s *DownloadService) Search(ctx context.Context, term, category string) []models.DownloadItem {
	return search.Downloads(s.List(ctx), term, category)
}

// Download counts a download and returns the URL to fetch. Hidden or
// missing items are not found; VIP-only items need a VIP session. A failed
// count does not block the download.
func (s *DownloadService) Download(ctx context.Context, id string) (string, error) {
	item, err := s.downloads.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if item == nil || !item.IsVisible {
		return "", fmt.Errorf("%w: download %s", common.ErrNotFound, id)
	}
	if item.IsVipOnly && !s.gate.IsVip() {
		return "", common.ErrVipRequired
	}

	if _, err := s.downloads.IncrementDownloadCount(ctx, id); err != nil {
		s.logger.Warn(ctx, "download not counted", "id", id, "error", err)
	}

	return s.resolver.Resolve(ctx, item.DownloadURL)
}
