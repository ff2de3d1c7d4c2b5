package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
)

// DefaultFirebaseBase is the Identity Toolkit v1 endpoint.
const DefaultFirebaseBase = "https://identitytoolkit.googleapis.com/v1"

type FirebaseOptions struct {
	APIKey  string
	BaseURL string
}

// Firebase signs in with email and password against the Identity Toolkit.
type Firebase struct {
	opts   FirebaseOptions
	client *http.Client
	store  *prefs.Store
	logger logging.Logger
	state  *authState
	now    func() time.Time
}

func NewFirebase(ctx context.Context, opts FirebaseOptions, store *prefs.Store, client *http.Client, logger logging.Logger) *Firebase {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultFirebaseBase
	}
	if client == nil {
		client = http.DefaultClient
	}
	f := &Firebase{
		opts:   opts,
		client: client,
		store:  store,
		logger: logger.With("provider", "firebase"),
		state:  newAuthState(),
		now:    time.Now,
	}
	f.restore(ctx)
	return f
}

func (f *Firebase) restore(ctx context.Context) {
	var user models.AdminUser
	if !f.store.Get(ctx, prefs.KeyAdminToken, &user) {
		return
	}
	if user.UID == "" || user.Expired(f.now()) {
		if err := f.store.Remove(ctx, prefs.KeyAdminToken); err != nil {
			f.logger.Warn(ctx, "remove admin token", "error", err)
		}
		return
	}
	f.state.set(&user)
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID   string `json:"localId"`
	Email     string `json:"email"`
	IDToken   string `json:"idToken"`
	ExpiresIn string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*models.AdminUser, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}

	endpoint := f.opts.BaseURL + "/accounts:signInWithPassword?key=" + url.QueryEscape(f.opts.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		if resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", common.ErrInvalidCredentials, e.Error.Message)
		}
		return nil, fmt.Errorf("identity toolkit: status %d: %s", resp.StatusCode, e.Error.Message)
	}

	var out signInResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}

	user := &models.AdminUser{UID: out.LocalID, Email: out.Email, IDToken: out.IDToken}
	if secs, err := strconv.Atoi(out.ExpiresIn); err == nil && secs > 0 {
		user.ExpiresAt = f.now().Add(time.Duration(secs) * time.Second)
	}

	if err := f.store.Set(ctx, prefs.KeyAdminToken, user); err != nil {
		f.logger.Warn(ctx, "admin token not persisted", "error", err)
	}
	f.state.set(user)
	return user, nil
}

func (f *Firebase) SignOut(ctx context.Context) error {
	f.state.set(nil)
	return f.store.Remove(ctx, prefs.KeyAdminToken)
}

func (f *Firebase) Watch(ctx context.Context) <-chan *models.AdminUser {
	return f.state.watch(ctx)
}

func (f *Firebase) Close() error {
	f.state.close()
	return nil
}
