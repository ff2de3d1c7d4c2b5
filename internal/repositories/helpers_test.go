package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/docstore"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
)

// tickingClock returns a time one second later on every call.
type tickingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{cur: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func newTestRepos(t *testing.T) (*Repositories, *docstore.Memory) {
	t.Helper()
	store := docstore.NewMemory()
	t.Cleanup(func() { store.Close() })
	return New(store, logging.NewNop(), WithClock(newTickingClock().Now)), store
}

var errStoreDown = errors.New("store unreachable")

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return nil, errStoreDown
}
func (brokenStore) Set(ctx context.Context, path string, value any) error { return errStoreDown }
func (brokenStore) Push(ctx context.Context, path string, value any) (string, error) {
	return "", errStoreDown
}
func (brokenStore) Remove(ctx context.Context, path string) error { return errStoreDown }
func (brokenStore) Watch(ctx context.Context, path string) (<-chan json.RawMessage, error) {
	return nil, errStoreDown
}
func (brokenStore) Close() error { return nil }

func newTestStore(t *testing.T) *docstore.Memory {
	t.Helper()
	store := docstore.NewMemory()
	t.Cleanup(func() { store.Close() })
	return store
}

func nopLogger() logging.Logger { return logging.NewNop() }
