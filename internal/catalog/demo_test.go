package catalog

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/config"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Demo output is stable and strictly newest first.
func TestDemo_LatestVideosDeterministic(t *testing.T) {
	d := NewDemo(time.Now())
	ctx := context.Background()

	first := d.LatestVideos(ctx, 5)
	second := d.LatestVideos(ctx, 5)

	require.Len(t, first, 5)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].PublishedAt.After(first[i].PublishedAt))
		assert.Equal(t, 24*time.Hour, first[i-1].PublishedAt.Sub(first[i].PublishedAt))
	}
}

func TestDemo_LatestVideosContent(t *testing.T) {
	d := NewDemo(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	videos := d.LatestVideos(context.Background(), 7)

	require.Len(t, videos, 7)
	assert.Equal(t, "demo-video-0", videos[0].ID)
	assert.Equal(t, "Minecraft Video #1 - Awesome Content", videos[0].Title)
	assert.Equal(t, "Ein tolles Minecraft Video mit spannenden Inhalten...", videos[0].Description)
	assert.Equal(t, "https://picsum.photos/320/180?random=0", videos[0].Thumbnail)
	assert.Equal(t, "https://www.youtube.com/watch?v=demo-video-0", videos[0].URL)
	assert.Equal(t, "Gaming", videos[4].Category)
	assert.Equal(t, "Minecraft", videos[5].Category)
	assert.Equal(t, "Unity Video #7 - Awesome Content", videos[6].Title)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), videos[6].PublishedAt)

	assert.Empty(t, d.LatestVideos(context.Background(), 0))
}

func TestDemo_SubscriberCountAndDetails(t *testing.T) {
	d := NewDemo(time.Now())
	ctx := context.Background()

	assert.Equal(t, "42.5K", d.SubscriberCount(ctx).Display)
	assert.Equal(t, int64(42500), d.SubscriberCount(ctx).Raw)

	detail := d.VideoDetails(ctx, "abc")
	require.NotNil(t, detail)
	assert.Equal(t, "abc", detail.ID)
	assert.Equal(t, "12.3K", detail.ViewCount)
	assert.Equal(t, "456", detail.LikeCount)
}

func TestNew(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	assert.IsType(t, &Demo{}, New(cfg, http.DefaultClient, logging.NewNop()))

	cfg.YouTubeAPIKey = "key"
	assert.IsType(t, &YouTube{}, New(cfg, http.DefaultClient, logging.NewNop()))

	cfg.YouTubeUseFeed = true
	c := New(cfg, http.DefaultClient, logging.NewNop())
	require.IsType(t, &Feed{}, c)
	assert.IsType(t, &YouTube{}, c.(*Feed).fallback)
}
