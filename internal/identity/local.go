package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
	"golang.org/x/crypto/bcrypt"
)

// LocalOptions configures the single administrator account.
type LocalOptions struct {
	Email        string
	PasswordHash string // bcrypt; empty disables sign-in
	Secret       []byte
	Validity     time.Duration
}

// Local authenticates the configured administrator and issues HS256 tokens.
type Local struct {
	opts   LocalOptions
	store  *prefs.Store
	logger logging.Logger
	state  *authState
	now    func() time.Time
}

// NewLocal restores a remembered token from store when it still verifies.
func NewLocal(ctx context.Context, opts LocalOptions, store *prefs.Store, logger logging.Logger) *Local {
	return newLocal(ctx, opts, store, logger, time.Now)
}

func newLocal(ctx context.Context, opts LocalOptions, store *prefs.Store, logger logging.Logger, now func() time.Time) *Local {
	l := &Local{
		opts:   opts,
		store:  store,
		logger: logger.With("provider", "local"),
		state:  newAuthState(),
		now:    now,
	}
	l.restore(ctx)
	return l
}

func (l *Local) restore(ctx context.Context) {
	var token string
	if !l.store.Get(ctx, prefs.KeyAdminToken, &token) {
		return
	}
	user, err := l.userFromToken(token)
	if err != nil {
		l.logger.Info(ctx, "discarding remembered admin token", "error", err)
		if err := l.store.Remove(ctx, prefs.KeyAdminToken); err != nil {
			l.logger.Warn(ctx, "remove admin token", "error", err)
		}
		return
	}
	l.state.set(user)
}

func (l *Local) userFromToken(token string) (*models.AdminUser, error) {
	claims, err := ParseToken(token, l.opts.Secret, l.now())
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(claims.Email, l.opts.Email) {
		return nil, common.ErrInvalidToken
	}
	return &models.AdminUser{
		UID:       claims.Subject,
		Email:     claims.Email,
		IDToken:   token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (l *Local) SignIn(ctx context.Context, email, password string) (*models.AdminUser, error) {
	if l.opts.PasswordHash == "" || !strings.EqualFold(email, l.opts.Email) {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(l.opts.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	uid := "local:" + strings.ToLower(l.opts.Email)
	token, expires, err := GenerateToken(uid, l.opts.Email, l.opts.Secret, l.now(), l.opts.Validity)
	if err != nil {
		return nil, fmt.Errorf("sign admin token: %w", err)
	}

	if err := l.store.Set(ctx, prefs.KeyAdminToken, token); err != nil {
		l.logger.Warn(ctx, "admin token not persisted", "error", err)
	}

	user := &models.AdminUser{UID: uid, Email: l.opts.Email, IDToken: token, ExpiresAt: expires}
	l.state.set(user)
	return user, nil
}

func (l *Local) SignOut(ctx context.Context) error {
	l.state.set(nil)
	return l.store.Remove(ctx, prefs.KeyAdminToken)
}

func (l *Local) Watch(ctx context.Context) <-chan *models.AdminUser {
	return l.state.watch(ctx)
}

func (l *Local) Close() error {
	l.state.close()
	return nil
}

// HashPassword returns the bcrypt hash to put in the admin configuration.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
