package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for empty or malformed paths.
var ErrInvalidPath = errors.New("invalid document path")

// Store is a path-addressed JSON document store.
type Store interface {
	// Get returns the JSON value at path, or nil when nothing is stored there.
	Get(ctx context.Context, path string) (json.RawMessage, error)
	// Set replaces the value at path. A nil value removes it.
	Set(ctx context.Context, path string, value any) error
	// Push stores value under a new generated key below path and returns the key.
	// Keys sort in creation order.
	Push(ctx context.Context, path string, value any) (string, error)
	// Remove deletes path. Removing an absent path is not an error.
	Remove(ctx context.Context, path string) error
	// Watch streams the value at path: the current value first, then the new
	// value after every change below or above path. A consumer that falls
	// behind only sees the most recent value. The channel is closed when ctx
	// ends or the store is closed.
	Watch(ctx context.Context, path string) (<-chan json.RawMessage, error)
	Close() error
}

// splitPath normalises path into its segments.
func splitPath(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, ErrInvalidPath
	}
	parts := strings.Split(path, "/")
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, "#$[]") {
			return nil, ErrInvalidPath
		}
	}
	return parts, nil
}

// overlaps reports whether a change at one path can alter the value at the other.
func overlaps(a, b []string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var newKey = func() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func encode(value any) (json.RawMessage, error) {
	if raw, ok := value.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(value)
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
