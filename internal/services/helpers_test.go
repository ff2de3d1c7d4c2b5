package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/docstore"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
)

type fakeGate struct {
	admin bool
	vip   bool
}

func (g *fakeGate) RequireAdmin() error {
	if !g.admin {
		return common.ErrUnauthorized
	}
	return nil
}

func (g *fakeGate) RequireVip() error {
	if !g.vip {
		return common.ErrUnauthorized
	}
	return nil
}

func (g *fakeGate) IsVip() bool { return g.vip }

// prefixResolver marks resolved URLs so tests can tell them apart.
type prefixResolver struct{}

func (prefixResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	return "resolved:" + rawURL, nil
}

type fakeUploader struct {
	err error
}

func (u fakeUploader) Upload(ctx context.Context, path string) (string, int64, error) {
	if u.err != nil {
		return "", 0, u.err
	}
	return "s3://downloads/" + path, 1536, nil
}

func newRepos(t *testing.T) (*repositories.Repositories, *docstore.Memory) {
	t.Helper()
	store := docstore.NewMemory()
	t.Cleanup(func() { store.Close() })

	cur := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
	return repositories.New(store, logging.NewNop(), repositories.WithClock(clock)), store
}
