// Package session tracks who is signed in: at most one administrator (via an
// identity.Provider) and at most one VIP user (checked against the vip-users
// collection). A Session is created once per client and closed on exit.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/identity"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// VipAuthenticator checks VIP credentials.
type VipAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.VipUser, error)
}

type Session struct {
	provider identity.Provider
	vipAuth  VipAuthenticator
	prefs    *prefs.Store
	logger   logging.Logger

	mu         sync.RWMutex
	admin      *models.AdminUser
	adminState State
	vip        *models.VipUser
	vipState   State

	ready     chan struct{}
	readyOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// New restores a remembered VIP session and starts following the provider's
// auth state. The admin side is loading until the provider reports once.
func New(ctx context.Context, provider identity.Provider, vipAuth VipAuthenticator, store *prefs.Store, logger logging.Logger) *Session {
	s := &Session{
		provider: provider,
		vipAuth:  vipAuth,
		prefs:    store,
		logger:   logger.With("component", "session"),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}

	s.restoreVip(ctx)

	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	updates := provider.Watch(wctx)
	go s.follow(updates)

	return s
}

func (s *Session) follow(updates <-chan *models.AdminUser) {
	defer close(s.done)
	for u := range updates {
		s.mu.Lock()
		switch {
		case u != nil:
			s.admin, s.adminState = u, Authenticated
		case s.adminState != Authenticating:
			s.admin, s.adminState = nil, Anonymous
		}
		s.mu.Unlock()
		s.readyOnce.Do(func() { close(s.ready) })
	}
}

func (s *Session) restoreVip(ctx context.Context) {
	var u models.VipUser
	if !s.prefs.Get(ctx, prefs.KeyVipUser, &u) {
		return
	}
	if u.Username != "" {
		s.vip, s.vipState = &u, Authenticated
		return
	}
	if err := s.prefs.Remove(ctx, prefs.KeyVipUser); err != nil {
		s.logger.Warn(ctx, "remove stored vip session", "error", err)
	}
}

// Loading reports whether the provider has not delivered its first state yet.
func (s *Session) Loading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

// WaitReady blocks until the first admin state is known or ctx is done.
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoginAdmin signs the administrator in. Every failure is reported as
// common.ErrInvalidCredentials; the cause is logged.
func (s *Session) LoginAdmin(ctx context.Context, email, password string) (*models.AdminUser, error) {
	s.setAdminState(Authenticating)

	u, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Warn(ctx, "admin login failed", "email", email, "error", err)
		s.mu.Lock()
		s.admin, s.adminState = nil, Anonymous
		s.mu.Unlock()
		return nil, common.ErrInvalidCredentials
	}

	s.mu.Lock()
	s.admin, s.adminState = u, Authenticated
	s.mu.Unlock()
	s.logger.Info(ctx, "admin logged in", "email", u.Email)
	return u, nil
}

// LogoutAdmin always ends in Anonymous.
func (s *Session) LogoutAdmin(ctx context.Context) {
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Error(ctx, "admin sign-out failed", "error", err)
	}
	s.mu.Lock()
	s.admin, s.adminState = nil, Anonymous
	s.mu.Unlock()
}

// LoginVip checks VIP credentials and remembers the session locally.
func (s *Session) LoginVip(ctx context.Context, username, password string) (*models.VipUser, error) {
	s.mu.Lock()
	s.vipState = Authenticating
	s.mu.Unlock()

	u, err := s.vipAuth.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Warn(ctx, "vip login failed", "username", username, "error", err)
		s.mu.Lock()
		s.vip, s.vipState = nil, Anonymous
		s.mu.Unlock()
		return nil, common.ErrInvalidCredentials
	}

	if err := s.prefs.Set(ctx, prefs.KeyVipUser, u); err != nil {
		s.logger.Warn(ctx, "vip session not persisted", "error", err)
	}

	s.mu.Lock()
	s.vip, s.vipState = u, Authenticated
	s.mu.Unlock()
	s.logger.Info(ctx, "vip logged in", "username", u.Username)
	return u, nil
}

// LogoutVip forgets the VIP user in memory and on disk.
func (s *Session) LogoutVip(ctx context.Context) error {
	s.mu.Lock()
	s.vip, s.vipState = nil, Anonymous
	s.mu.Unlock()
	return s.prefs.Remove(ctx, prefs.KeyVipUser)
}

func (s *Session) setAdminState(st State) {
	s.mu.Lock()
	s.adminState = st
	s.mu.Unlock()
}

func (s *Session) Admin() *models.AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

func (s *Session) IsAdmin() bool { return s.AdminState() == Authenticated }

func (s *Session) AdminState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminState
}

func (s *Session) Vip() *models.VipUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vip
}

func (s *Session) IsVip() bool { return s.VipState() == Authenticated }

func (s *Session) VipState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vipState
}

// RequireAdmin returns common.ErrUnauthorized unless an admin is signed in.
func (s *Session) RequireAdmin() error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}
	return nil
}

// RequireVip returns common.ErrUnauthorized unless a VIP is signed in.
func (s *Session) RequireVip() error {
	if !s.IsVip() {
		return common.ErrUnauthorized
	}
	return nil
}

// Close stops following the provider. It does not sign anyone out.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}
