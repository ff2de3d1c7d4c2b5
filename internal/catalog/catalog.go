// Package catalog reads channel statistics and videos from YouTube.
//
// Every implementation hides failures from callers: a failed lookup yields
// the "N/A" subscriber count, an empty video list or a nil detail, and the
// cause is logged. Without an API key the Demo catalog serves fixed data.
package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/config"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
)

// Catalog is the read side of the video platform.
type Catalog interface {
	SubscriberCount(ctx context.Context) models.SubscriberCount
	LatestVideos(ctx context.Context, maxResults int) []models.VideoSummary
	// VideoDetails returns nil when the video does not exist or cannot be read.
	VideoDetails(ctx context.Context, id string) *models.VideoDetail
}

// Unavailable is returned as the subscriber count when it cannot be read.
var Unavailable = models.SubscriberCount{Display: "N/A", Raw: 0}

// New picks the implementation for cfg: Demo without API key, otherwise the
// Data API client, wrapped by Feed when cfg.YouTubeUseFeed is set.
func New(cfg *config.Config, client *http.Client, logger logging.Logger) Catalog {
	var base Catalog
	if cfg.DemoCatalog() {
		logger.Info(context.Background(), "no YouTube API key configured, using demo catalog")
		base = NewDemo(time.Now())
	} else {
		base = NewYouTube(YouTubeOptions{
			BaseURL:           cfg.YouTubeAPIBase,
			APIKey:            cfg.YouTubeAPIKey,
			ChannelID:         cfg.YouTubeChannelID,
			RequestsPerMinute: cfg.CatalogRequestsPerMinute,
		}, client, logger)
	}

	if cfg.YouTubeUseFeed {
		return NewFeed(cfg.YouTubeFeedBase, cfg.YouTubeChannelID, client, base, logger)
	}
	return base
}
