package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/format"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// YouTubeOptions configures the Data API client.
type YouTubeOptions struct {
	BaseURL   string
	APIKey    string
	ChannelID string
	// RequestsPerMinute paces outgoing calls; zero or less disables pacing.
	RequestsPerMinute int
}

// YouTube reads from the YouTube Data API v3.
type YouTube struct {
	opts    YouTubeOptions
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  logging.Logger
}

// NewYouTube returns a Data API client. Calls are paced by a token bucket
// and pass through a circuit breaker that opens after five consecutive
// failures and probes again after a minute.
func NewYouTube(opts YouTubeOptions, client *http.Client, logger logging.Logger) *YouTube {
	if client == nil {
		client = http.DefaultClient
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	y := &YouTube{
		opts:    opts,
		client:  client,
		limiter: rate.NewLimiter(limit, max(1, opts.RequestsPerMinute/6)),
		logger:  logger.With("component", "youtube"),
	}
	y.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "youtube-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			y.logger.Warn(context.Background(), "circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return y
}

// errStatus reports a non-2xx response.
type errStatus struct {
	code int
	body string
}

func (e *errStatus) Error() string {
	return fmt.Sprintf("youtube api: status %d: %s", e.code, e.body)
}

func (y *YouTube) get(ctx context.Context, endpoint string, q url.Values, dst any) error {
	q.Set("key", y.opts.APIKey)
	u := y.opts.BaseURL + "/" + endpoint + "?" + q.Encode()

	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := y.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := y.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &errStatus{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
		}
		return data, nil
	})
	if err != nil {
		if isRejected(err) {
			y.logger.Debug(ctx, "call rejected by circuit breaker", "endpoint", endpoint)
		}
		return err
	}
	return json.Unmarshal(body, dst)
}

type thumbnail struct {
	URL string `json:"url"`
}

type snippet struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	Thumbnails  struct {
		Medium thumbnail `json:"medium"`
		High   thumbnail `json:"high"`
	} `json:"thumbnails"`
}

// SubscriberCount reads the channel statistics.
func (y *YouTube) SubscriberCount(ctx context.Context) models.SubscriberCount {
	var res struct {
		Items []struct {
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
			} `json:"statistics"`
		} `json:"items"`
	}

	q := url.Values{"part": {"statistics"}, "id": {y.opts.ChannelID}}
	if err := y.get(ctx, "channels", q, &res); err != nil {
		y.logger.Error(ctx, "fetch subscriber count failed", "error", err)
		return Unavailable
	}
	if len(res.Items) == 0 || res.Items[0].Statistics.SubscriberCount == "" {
		y.logger.Error(ctx, "no subscriber count in response", "channel", y.opts.ChannelID)
		return Unavailable
	}

	n, err := strconv.ParseInt(res.Items[0].Statistics.SubscriberCount, 10, 64)
	if err != nil {
		y.logger.Error(ctx, "parse subscriber count failed", "error", err)
		return Unavailable
	}
	return models.SubscriberCount{Display: format.Number(n), Raw: n}
}

// LatestVideos searches the channel's videos, newest first.
func (y *YouTube) LatestVideos(ctx context.Context, maxResults int) []models.VideoSummary {
	var res struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet snippet `json:"snippet"`
		} `json:"items"`
	}

	q := url.Values{
		"part":       {"snippet"},
		"channelId":  {y.opts.ChannelID},
		"maxResults": {strconv.Itoa(maxResults)},
		"order":      {"date"},
		"type":       {"video"},
	}
	if err := y.get(ctx, "search", q, &res); err != nil {
		y.logger.Error(ctx, "fetch latest videos failed", "error", err)
		return []models.VideoSummary{}
	}

	videos := make([]models.VideoSummary, 0, len(res.Items))
	for _, it := range res.Items {
		videos = append(videos, models.VideoSummary{
			ID:          it.ID.VideoID,
			Title:       it.Snippet.Title,
			Description: it.Snippet.Description,
			Thumbnail:   it.Snippet.Thumbnails.Medium.URL,
			PublishedAt: it.Snippet.PublishedAt,
			URL:         format.WatchURL(it.ID.VideoID),
		})
	}
	return videos
}

// VideoDetails reads snippet and statistics of one video.
func (y *YouTube) VideoDetails(ctx context.Context, id string) *models.VideoDetail {
	var res struct {
		Items []struct {
			ID         string  `json:"id"`
			Snippet    snippet `json:"snippet"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
				LikeCount string `json:"likeCount"`
			} `json:"statistics"`
		} `json:"items"`
	}

	q := url.Values{"part": {"snippet,statistics"}, "id": {id}}
	if err := y.get(ctx, "videos", q, &res); err != nil {
		y.logger.Error(ctx, "fetch video details failed", "id", id, "error", err)
		return nil
	}
	if len(res.Items) == 0 {
		y.logger.Debug(ctx, "video not found", "id", id)
		return nil
	}

	v := res.Items[0]
	return &models.VideoDetail{
		ID:          v.ID,
		Title:       v.Snippet.Title,
		Description: v.Snippet.Description,
		Thumbnail:   v.Snippet.Thumbnails.High.URL,
		PublishedAt: v.Snippet.PublishedAt,
		ViewCount:   countString(v.Statistics.ViewCount),
		LikeCount:   countString(v.Statistics.LikeCount),
		URL:         format.WatchURL(v.ID),
	}
}

// countString formats a numeric API string; hidden counts come back empty.
func countString(s string) string {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ""
	}
	return format.Number(n)
}

// IsOpen reports whether the breaker is currently rejecting calls.
func (y *YouTube) IsOpen() bool {
	return y.cb.State() == gobreaker.StateOpen
}

var _ Catalog = (*YouTube)(nil)

func isRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
