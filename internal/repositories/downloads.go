package repositories

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/models"
)

const downloadCountField = "downloadCount"

// Downloads is the downloads collection. Whole-record writes never carry a
// download count; only IncrementDownloadCount touches it.
type Downloads struct {
	*Collection[models.DownloadItem, *models.DownloadItem]
}

func clearDownloadCount(d *models.DownloadItem) { d.DownloadCount = 0 }

// GetVisible returns downloads marked visible, newest first.
func (d *Downloads) GetVisible(ctx context.Context) []models.DownloadItem {
	all := d.GetAll(ctx)
	out := make([]models.DownloadItem, 0, len(all))
	for _, item := range all {
		if item.IsVisible {
			out = append(out, item)
		}
	}
	return out
}

// IncrementDownloadCount reads the record, adds one to its count and writes
// back only the count. Two concurrent increments can lose one of them.
func (d *Downloads) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	item, err := d.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, fmt.Errorf("%w: download %s", common.ErrNotFound, id)
	}

	next := item.DownloadCount + 1
	if err := d.store.Set(ctx, d.path(id)+"/"+downloadCountField, next); err != nil {
		return 0, fmt.Errorf("%w: increment %s: %v", common.ErrPersistence, id, err)
	}

	d.logger.Debug(ctx, "download counted", "id", id, "count", next)
	return next, nil
}
