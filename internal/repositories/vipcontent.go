package repositories

import (
	"context"

	"github.com/dmitrijs2005/qfvjug/internal/models"
)

// VipContent is the vip-content collection. It does not check who reads it.
type VipContent struct {
	*Collection[models.VipContentItem, *models.VipContentItem]
}

// GetVisible returns content marked visible, newest first.
func (v *VipContent) GetVisible(ctx context.Context) []models.VipContentItem {
	all := v.GetAll(ctx)
	out := make([]models.VipContentItem, 0, len(all))
	for _, item := range all {
		if item.IsVisible {
			out = append(out, item)
		}
	}
	return out
}
