package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/qfvjug/internal/format"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// Feed lists the latest videos from the channel's public Atom feed, which
// needs no API key and costs no quota. Subscriber counts and video details
// are not in the feed and come from the wrapped catalog.
type Feed struct {
	feedURL  string
	client   *http.Client
	parser   *gofeed.Parser
	fallback Catalog
	logger   logging.Logger
}

// NewFeed reads baseURL?channel_id=channelID. fallback answers everything
// except LatestVideos.
func NewFeed(baseURL, channelID string, client *http.Client, fallback Catalog, logger logging.Logger) *Feed {
	if client == nil {
		client = http.DefaultClient
	}
	return &Feed{
		feedURL:  baseURL + "?" + url.Values{"channel_id": {channelID}}.Encode(),
		client:   client,
		parser:   gofeed.NewParser(),
		fallback: fallback,
		logger:   logger.With("component", "youtube-feed"),
	}
}

func (f *Feed) SubscriberCount(ctx context.Context) models.SubscriberCount {
	return f.fallback.SubscriberCount(ctx)
}

func (f *Feed) VideoDetails(ctx context.Context, id string) *models.VideoDetail {
	return f.fallback.VideoDetails(ctx, id)
}

// LatestVideos returns up to maxResults feed entries in feed order, which
// is newest first.
func (f *Feed) LatestVideos(ctx context.Context, maxResults int) []models.VideoSummary {
	data, err := f.fetch(ctx)
	if err != nil {
		f.logger.Error(ctx, "fetch channel feed failed", "error", err)
		return []models.VideoSummary{}
	}

	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		f.logger.Error(ctx, "parse channel feed failed", "error", err)
		return []models.VideoSummary{}
	}

	videos := make([]models.VideoSummary, 0, min(len(parsed.Items), max(0, maxResults)))
	for _, item := range parsed.Items {
		if len(videos) >= maxResults {
			break
		}
		videos = append(videos, feedVideo(item))
	}
	return videos
}

func (f *Feed) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func feedVideo(item *gofeed.Item) models.VideoSummary {
	id := extValue(item.Extensions, "yt", "videoId")
	if id == "" {
		id, _ = format.YouTubeVideoID(item.Link)
	}

	v := models.VideoSummary{
		ID:          id,
		Title:       item.Title,
		Description: item.Description,
		URL:         format.WatchURL(id),
	}
	if item.PublishedParsed != nil {
		v.PublishedAt = item.PublishedParsed.UTC()
	}

	if group := extFirst(item.Extensions, "media", "group"); group != nil {
		if d := group.Children["description"]; len(d) > 0 && v.Description == "" {
			v.Description = strings.TrimSpace(d[0].Value)
		}
		if th := group.Children["thumbnail"]; len(th) > 0 {
			v.Thumbnail = th[0].Attrs["url"]
		}
	}
	if v.Thumbnail == "" {
		if item.Image != nil {
			v.Thumbnail = item.Image.URL
		} else if id != "" {
			v.Thumbnail = format.YouTubeThumbnail(id, "medium")
		}
	}
	return v
}

func extFirst(exts ext.Extensions, ns, name string) *ext.Extension {
	if exts == nil {
		return nil
	}
	if vals := exts[ns][name]; len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

func extValue(exts ext.Extensions, ns, name string) string {
	if e := extFirst(exts, ns, name); e != nil {
		return strings.TrimSpace(e.Value)
	}
	return ""
}

var _ Catalog = (*Feed)(nil)
