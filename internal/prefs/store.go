package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
)

// Keys used by the site, without prefix.
const (
	KeyFavorites  = "favorites"
	KeyVipUser    = "vip-user"
	KeyAdminToken = "admin-token"
)

// Store is the JSON view over a Repository with every key namespaced by the
// site prefix.
type Store struct {
	repo   Repository
	prefix string
	logger logging.Logger
}

// NewStore namespaces keys with common.StoragePrefix.
func NewStore(repo Repository, logger logging.Logger) *Store {
	return &Store{repo: repo, prefix: common.StoragePrefix, logger: logger}
}

func (s *Store) key(k string) string { return s.prefix + k }

// Get decodes the value at key into dst and reports whether it did. A
// missing key, a backend error or malformed JSON all return false; the
// latter two are logged. Malformed JSON is also deleted so the next read
// sees a missing key. A backend error leaves the stored value alone.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	raw, err := s.repo.Get(ctx, s.key(key))
	if err != nil {
		s.logger.Error(ctx, "read preference failed", "key", key, "error", err)
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn(ctx, "malformed preference, discarding", "key", key, "error", err)
		if err := s.repo.Delete(ctx, s.key(key)); err != nil {
			s.logger.Error(ctx, "discard preference failed", "key", key, "error", err)
		}
		return false
	}
	return true
}

// Value returns the decoded value at key, or def when Get would return false.
func Value[T any](ctx context.Context, s *Store, key string, def T) T {
	var v T
	if !s.Get(ctx, key, &v) {
		return def
	}
	return v
}

// Set stores value as JSON.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode preference %s: %w", key, err)
	}
	return s.repo.Set(ctx, s.key(key), raw)
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, s.key(key))
}

// Clear removes every key under the site prefix.
func (s *Store) Clear(ctx context.Context) error {
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for k := range all {
		if !strings.HasPrefix(k, s.prefix) {
			continue
		}
		if err := s.repo.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
