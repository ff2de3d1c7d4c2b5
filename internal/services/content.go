package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/qfvjug/internal/catalog"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
	"github.com/dmitrijs2005/qfvjug/internal/search"
)

// VideoPageSize is how many videos the listing pages request.
const VideoPageSize = 12

// ContentService serves the public pages: news, videos and favourites.
type ContentService struct {
	news      *repositories.News
	catalog   catalog.Catalog
	favorites *prefs.Favorites
	logger    logging.Logger
}

func NewContentService(news *repositories.News, cat catalog.Catalog, favorites *prefs.Favorites, logger logging.Logger) *ContentService {
	return &ContentService{news: news, catalog: cat, favorites: favorites, logger: logger}
}

// News returns visible news, newest first.
func (s *ContentService) News(ctx context.Context) []models.NewsItem {
	return s.news.GetVisible(ctx)
}

// Latest returns at most n visible news entries.
func (s *ContentService) Latest(ctx context.Context, n int) []models.NewsItem {
	items := s.News(ctx)
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// WatchNews streams visible news snapshots until ctx ends or the returned
// stop function is called.
func (s *ContentService) WatchNews(ctx context.Context) (<-chan []models.NewsItem, func(), error) {
	sub, err := s.news.Subscribe(ctx)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan []models.NewsItem, 1)
	go func() {
		defer close(out)
		for snap := range sub.C {
			visible := slices.DeleteFunc(snap, func(n models.NewsItem) bool { return !n.IsVisible })
			select {
			case <-out:
			default:
			}
			out <- visible
		}
	}()
	return out, sub.Close, nil
}

func (s *ContentService) Subscribers(ctx context.Context) models.SubscriberCount {
	return s.catalog.SubscriberCount(ctx)
}

func (s *ContentService) Videos(ctx context.Context) []models.VideoSummary {
	return s.catalog.LatestVideos(ctx, VideoPageSize)
}

// SearchVideos filters the latest videos by term and category.
func (s *ContentService) SearchVideos(ctx context.Context, term, category string) []models.VideoSummary {
	return search.Videos(s.Videos(ctx), term, category)
}

func (s *ContentService) Video(ctx context.Context, id string) *models.VideoDetail {
	return s.catalog.VideoDetails(ctx, id)
}

func (s *ContentService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	favs, err := s.favorites.Toggle(ctx, id)
	if err != nil {
		return false, err
	}
	return slices.Contains(favs, id), nil
}

func (s *ContentService) Favorites(ctx context.Context) []string {
	return s.favorites.List(ctx)
}

// FavoriteVideos returns the listed videos that are marked as favourites.
// Favourite ids not in the current listing are skipped.
func (s *ContentService) FavoriteVideos(ctx context.Context) []models.VideoSummary {
	favs := s.favorites.List(ctx)
	if len(favs) == 0 {
		return []models.VideoSummary{}
	}
	videos := s.Videos(ctx)
	out := make([]models.VideoSummary, 0, len(favs))
	for _, v := range videos {
		if slices.Contains(favs, v.ID) {
			out = append(out, v)
		}
	}
	return out
}
