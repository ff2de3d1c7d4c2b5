package repositories

import (
	"context"

	"github.com/dmitrijs2005/qfvjug/internal/models"
)

// News is the news collection.
type News struct {
	*Collection[models.NewsItem, *models.NewsItem]
}

// GetVisible returns the entries marked visible, newest first.
func (n *News) GetVisible(ctx context.Context) []models.NewsItem {
	all := n.GetAll(ctx)
	out := make([]models.NewsItem, 0, len(all))
	for _, item := range all {
		if item.IsVisible {
			out = append(out, item)
		}
	}
	return out
}
