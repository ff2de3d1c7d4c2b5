package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
)

// VipService serves the VIP area. Every call needs a VIP session.
type VipService struct {
	content  *repositories.VipContent
	gate     Gate
	resolver Resolver
}

func NewVipService(content *repositories.VipContent, gate Gate, resolver Resolver) *VipService {
	return &VipService{content: content, gate: gate, resolver: resolver}
}

func (s *VipService) Content(ctx context.Context) ([]models.VipContentItem, error) {
	if err := s.gate.RequireVip(); err != nil {
		return nil, err
	}
	return s.content.GetVisible(ctx), nil
}

// Download returns the fetchable URL of a visible VIP item.
func (s *VipService) Download(ctx context.Context, id string) (string, error) {
	if err := s.gate.RequireVip(); err != nil {
		return "", err
	}
	item, err := s.content.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if item == nil || !item.IsVisible || item.DownloadURL == "" {
		return "", fmt.Errorf("%w: vip content %s", common.ErrNotFound, id)
	}
	return s.resolver.Resolve(ctx, item.DownloadURL)
}
