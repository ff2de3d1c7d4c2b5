// Package prefs is the client's durable key/value store: favourites, the
// remembered VIP session and the admin token live here.
//
// Repository is the raw byte store. Store layers the site key prefix and
// JSON encoding on top and never fails a read: bad or missing data yields
// the caller's default.
package prefs

import "context"

// Repository persists raw values by key. Get returns nil, nil for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
