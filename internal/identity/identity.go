// Package identity signs the site administrator in and out.
//
// Two providers exist: Local checks credentials from configuration and mints
// its own tokens, Firebase delegates to the Identity Toolkit REST API. Both
// remember the signed-in user in the preference store so a restart resumes
// the session while its token is still valid.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/qfvjug/internal/config"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
)

// Provider is an admin identity backend.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*models.AdminUser, error)
	SignOut(ctx context.Context) error
	// Watch streams auth-state changes until ctx is done. The first value is
	// the current user, nil when signed out. Slow readers only see the latest
	// state.
	Watch(ctx context.Context) <-chan *models.AdminUser
	Close() error
}

// New builds the provider selected by cfg.IdentityBackend.
func New(ctx context.Context, cfg *config.Config, store *prefs.Store, client *http.Client, logger logging.Logger) (Provider, error) {
	switch cfg.IdentityBackend {
	case "local":
		return NewLocal(ctx, LocalOptions{
			Email:        cfg.AdminEmail,
			PasswordHash: cfg.AdminPasswordHash,
			Secret:       []byte(cfg.SecretKey),
			Validity:     cfg.AdminTokenValidity,
		}, store, logger), nil
	case "firebase":
		return NewFirebase(ctx, FirebaseOptions{APIKey: cfg.FirebaseAPIKey}, store, client, logger), nil
	default:
		return nil, fmt.Errorf("unknown identity backend %q", cfg.IdentityBackend)
	}
}

// authState holds the current user and fans changes out to watchers.
type authState struct {
	mu       sync.Mutex
	current  *models.AdminUser
	watchers map[chan *models.AdminUser]struct{}
	closed   bool
}

func newAuthState() *authState {
	return &authState{watchers: make(map[chan *models.AdminUser]struct{})}
}

func (s *authState) get() *models.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *authState) set(u *models.AdminUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = u
	for ch := range s.watchers {
		offerUser(ch, u)
	}
}

func (s *authState) watch(ctx context.Context) <-chan *models.AdminUser {
	ch := make(chan *models.AdminUser, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	ch <- s.current
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
	}()
	return ch
}

func (s *authState) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.watchers {
		delete(s.watchers, ch)
		close(ch)
	}
}

func offerUser(ch chan *models.AdminUser, u *models.AdminUser) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- u:
	default:
	}
}
