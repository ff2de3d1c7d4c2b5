// Package services is the use-case layer the CLI talks to. It combines the
// repositories, the video catalog, local favourites and the session, and it
// is where admin and VIP access is enforced: the repositories themselves
// accept any caller.
package services

import "context"

// Gate answers role checks for the current client.
type Gate interface {
	RequireAdmin() error
	RequireVip() error
	IsVip() bool
}

// Resolver turns a stored download URL into one the client can fetch.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Uploader stores a local file and returns the URL to record for it.
type Uploader interface {
	Upload(ctx context.Context, path string) (url string, size int64, err error)
}
