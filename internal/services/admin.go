package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/format"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
)

// AdminService backs the admin panel. Every call needs an admin session.
type AdminService struct {
	repos    *repositories.Repositories
	gate     Gate
	uploader Uploader
}

func NewAdminService(repos *repositories.Repositories, gate Gate, uploader Uploader) *AdminService {
	return &AdminService{repos: repos, gate: gate, uploader: uploader}
}

// Upload puts a local file into download storage and returns its URL and
// display size, ready for a new download record.
func (s *AdminService) Upload(ctx context.Context, path string) (string, string, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return "", "", err
	}
	url, size, err := s.uploader.Upload(ctx, path)
	if err != nil {
		return "", "", err
	}
	return url, format.FileSize(size), nil
}

func (s *AdminService) Stats(ctx context.Context) (models.Stats, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return models.Stats{}, err
	}
	return s.repos.Stats(ctx), nil
}

// News lists every entry, hidden ones included.
func (s *AdminService) News(ctx context.Context) ([]models.NewsItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.repos.News.GetAll(ctx), nil
}

// NewsItem returns one entry, hidden or not, for editing.
func (s *AdminService) NewsItem(ctx context.Context, id string) (models.NewsItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return models.NewsItem{}, err
	}
	return getOne(ctx, s.repos.News.Get, id)
}

func (s *AdminService) AddNews(ctx context.Context, item models.NewsItem) (models.NewsItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return item, err
	}
	return s.repos.News.Add(ctx, item)
}

func (s *AdminService) UpdateNews(ctx context.Context, id string, item models.NewsItem) (models.NewsItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return item, err
	}
	return s.repos.News.Update(ctx, id, item)
}

func (s *AdminService) DeleteNews(ctx context.Context, id string) error {
	if err := s.gate.RequireAdmin(); err != nil {
		return err
	}
	return s.repos.News.Delete(ctx, id)
}

func (s *AdminService) Downloads(ctx context.Context) ([]models.DownloadItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.repos.Downloads.GetAll(ctx), nil
}

func (s *AdminService) Download(ctx context.Context, id string) (models.DownloadItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return models.DownloadItem{}, err
	}
	return getOne(ctx, s.repos.Downloads.Get, id)
}

func (s *AdminService) AddDownload(ctx context.Context, item models.DownloadItem) (models.DownloadItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return item, err
	}
	return s.repos.Downloads.Add(ctx, item)
}

func (s *AdminService) UpdateDownload(ctx context.Context, id string, item models.DownloadItem) (models.DownloadItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return item, err
	}
	return s.repos.Downloads.Update(ctx, id, item)
}

func (s *AdminService) DeleteDownload(ctx context.Context, id string) error {
	if err := s.gate.RequireAdmin(); err != nil {
		return err
	}
	return s.repos.Downloads.Delete(ctx, id)
}

// VipUsers lists accounts with masked passwords.
func (s *AdminService) VipUsers(ctx context.Context) ([]models.VipUser, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.repos.VipUsers.List(ctx), nil
}

func (s *AdminService) CreateVipUser(ctx context.Context, username, password string) (models.VipUser, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return models.VipUser{}, err
	}
	return s.repos.VipUsers.Create(ctx, username, password)
}

func (s *AdminService) DeleteVipUser(ctx context.Context, id string) error {
	if err := s.gate.RequireAdmin(); err != nil {
		return err
	}
	return s.repos.VipUsers.Delete(ctx, id)
}

func (s *AdminService) VipContent(ctx context.Context) ([]models.VipContentItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.repos.VipContent.GetAll(ctx), nil
}

func (s *AdminService) VipContentItem(ctx context.Context, id string) (models.VipContentItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return models.VipContentItem{}, err
	}
	return getOne(ctx, s.repos.VipContent.Get, id)
}

func (s *AdminService) AddVipContent(ctx context.Context, item models.VipContentItem) (models.VipContentItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return item, err
	}
	return s.repos.VipContent.Add(ctx, item)
}

func (s *AdminService) UpdateVipContent(ctx context.Context, id string, item models.VipContentItem) (models.VipContentItem, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return item, err
	}
	return s.repos.VipContent.Update(ctx, id, item)
}

func (s *AdminService) DeleteVipContent(ctx context.Context, id string) error {
	if err := s.gate.RequireAdmin(); err != nil {
		return err
	}
	return s.repos.VipContent.Delete(ctx, id)
}

func getOne[T any](ctx context.Context, get func(context.Context, string) (*T, error), id string) (T, error) {
	var zero T
	item, err := get(ctx, id)
	if err != nil {
		return zero, err
	}
	if item == nil {
		return zero, fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	return *item, nil
}
