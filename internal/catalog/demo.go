package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/format"
	"github.com/dmitrijs2005/qfvjug/internal/models"
)

var demoCategories = []string{"Minecraft", "Unity", "Challenges", "Tutorials", "Gaming"}

// DemoSubscriberCount is what Demo reports as the channel's subscribers.
var DemoSubscriberCount = models.SubscriberCount{Display: "42.5K", Raw: 42500}

// Demo serves synthetic data without network access. All timestamps derive
// from the anchor given at construction, so output is stable for the life
// of the value.
type Demo struct {
	anchor time.Time
}

// NewDemo returns a demo catalog anchored at the given time.
func NewDemo(anchor time.Time) *Demo {
	return &Demo{anchor: anchor.UTC()}
}

func (d *Demo) SubscriberCount(ctx context.Context) models.SubscriberCount {
	return DemoSubscriberCount
}

// LatestVideos returns maxResults videos cycling through the demo
// categories, each published one day before the previous one.
func (d *Demo) LatestVideos(ctx context.Context, maxResults int) []models.VideoSummary {
	videos := make([]models.VideoSummary, 0, max(0, maxResults))
	for i := 0; i < maxResults; i++ {
		category := demoCategories[i%len(demoCategories)]
		id := fmt.Sprintf("demo-video-%d", i)
		videos = append(videos, models.VideoSummary{
			ID:          id,
			Title:       fmt.Sprintf("%s Video #%d - Awesome Content", category, i+1),
			Description: fmt.Sprintf("Ein tolles %s Video mit spannenden Inhalten...", category),
			Thumbnail:   fmt.Sprintf("https://picsum.photos/320/180?random=%d", i),
			PublishedAt: d.anchor.Add(-time.Duration(i) * 24 * time.Hour),
			URL:         format.WatchURL(id),
			Category:    category,
		})
	}
	return videos
}

// VideoDetails returns the same demo detail for any id.
func (d *Demo) VideoDetails(ctx context.Context, id string) *models.VideoDetail {
	return &models.VideoDetail{
		ID:          id,
		Title:       "Demo Video - Awesome Content",
		Description: "Ein tolles Demo-Video mit spannenden Inhalten...",
		Thumbnail:   "https://picsum.photos/640/360?random=1",
		PublishedAt: d.anchor,
		ViewCount:   "12.3K",
		LikeCount:   "456",
		URL:         format.WatchURL(id),
	}
}

var _ Catalog = (*Demo)(nil)
