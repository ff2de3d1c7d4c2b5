package repositories

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/docstore"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
)

const topDownloads = 5

// Repositories bundles the four collections over one store.
type Repositories struct {
	News       *News
	Downloads  *Downloads
	VipUsers   *VipUsers
	VipContent *VipContent
}

// Option tweaks New.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds the collections over store.
func New(store docstore.Store, logger logging.Logger, opts ...Option) *Repositories {
	o := &options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(o)
	}

	downloads := newCollection[models.DownloadItem](store, common.CollectionDownloads, logger, o.now)
	downloads.beforeWrite = clearDownloadCount

	vipContent := newCollection[models.VipContentItem](store, common.CollectionVipContent, logger, o.now)
	vipContent.beforeWrite = func(c *models.VipContentItem) { c.DownloadCount = 0 }

	return &Repositories{
		News:       &News{newCollection[models.NewsItem](store, common.CollectionNews, logger, o.now)},
		Downloads:  &Downloads{downloads},
		VipUsers:   &VipUsers{newCollection[models.VipUser](store, common.CollectionVipUsers, logger, o.now)},
		VipContent: &VipContent{vipContent},
	}
}

// Stats builds the admin overview from unfiltered reads.
func (r *Repositories) Stats(ctx context.Context) models.Stats {
	news := r.News.GetAll(ctx)
	downloads := r.Downloads.GetAll(ctx)
	users := r.VipUsers.GetAll(ctx)

	s := models.Stats{
		News:      len(news),
		Downloads: len(downloads),
		VipUsers:  len(users),
	}
	for _, d := range downloads {
		s.TotalDownloads += d.DownloadCount
	}

	top := slices.Clone(downloads)
	slices.SortStableFunc(top, func(a, b models.DownloadItem) int {
		switch {
		case a.DownloadCount > b.DownloadCount:
			return -1
		case a.DownloadCount < b.DownloadCount:
			return 1
		}
		return 0
	})
	s.TopDownloads = top[:min(topDownloads, len(top))]
	return s
}
