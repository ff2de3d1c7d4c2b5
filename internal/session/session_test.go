package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/docstore"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider lets a test decide when auth-state updates arrive.
type fakeProvider struct {
	updates    chan *models.AdminUser
	user       *models.AdminUser
	signInErr  error
	signOutErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{updates: make(chan *models.AdminUser, 1)}
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*models.AdminUser, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.user, nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error { return f.signOutErr }

func (f *fakeProvider) Watch(ctx context.Context) <-chan *models.AdminUser {
	out := make(chan *models.AdminUser)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case u := <-f.updates:
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (f *fakeProvider) Close() error { return nil }

type vipAuthFunc func(ctx context.Context, username, password string) (*models.VipUser, error)

func (f vipAuthFunc) Authenticate(ctx context.Context, username, password string) (*models.VipUser, error) {
	return f(ctx, username, password)
}

func noVip(ctx context.Context, username, password string) (*models.VipUser, error) {
	return nil, common.ErrInvalidCredentials
}

// flakyRepo fails the next failGets reads.
type flakyRepo struct {
	*prefs.MemoryRepository
	mu       sync.Mutex
	failGets int
}

func (r *flakyRepo) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	fail := r.failGets > 0
	if fail {
		r.failGets--
	}
	r.mu.Unlock()
	if fail {
		return nil, errors.New("disk busy")
	}
	return r.MemoryRepository.Get(ctx, key)
}

func newPrefs() (*prefs.Store, *prefs.MemoryRepository) {
	repo := prefs.NewMemoryRepository()
	return prefs.NewStore(repo, logging.NewNop()), repo
}

func TestSession_LoadingUntilFirstState(t *testing.T) {
	p := newFakeProvider()
	store, _ := newPrefs()

	s := New(context.Background(), p, vipAuthFunc(noVip), store, logging.NewNop())
	defer s.Close()

	assert.True(t, s.Loading())
	assert.Equal(t, Anonymous, s.AdminState())

	p.updates <- nil
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.WaitReady(ctx))
	assert.False(t, s.Loading())
	assert.False(t, s.IsAdmin())
}

func TestSession_WaitReadyHonoursContext(t *testing.T) {
	store, _ := newPrefs()
	s := New(context.Background(), newFakeProvider(), vipAuthFunc(noVip), store, logging.NewNop())
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitReady(ctx), context.DeadlineExceeded)
}

func TestSession_ProviderUpdatesAdmin(t *testing.T) {
	p := newFakeProvider()
	store, _ := newPrefs()
	s := New(context.Background(), p, vipAuthFunc(noVip), store, logging.NewNop())
	defer s.Close()

	p.updates <- &models.AdminUser{UID: "u1", Email: "admin@qfvjug.de"}
	require.Eventually(t, s.IsAdmin, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "u1", s.Admin().UID)
	assert.NoError(t, s.RequireAdmin())

	p.updates <- nil
	require.Eventually(t, func() bool { return !s.IsAdmin() }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.RequireAdmin(), common.ErrUnauthorized)
}

func TestSession_LoginAdmin(t *testing.T) {
	ctx := context.Background()
	p := newFakeProvider()
	p.user = &models.AdminUser{UID: "u1", Email: "admin@qfvjug.de"}
	store, _ := newPrefs()
	s := New(ctx, p, vipAuthFunc(noVip), store, logging.NewNop())
	defer s.Close()

	u, err := s.LoginAdmin(ctx, "admin@qfvjug.de", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UID)
	assert.Equal(t, Authenticated, s.AdminState())

	p.signOutErr = errors.New("network down")
	s.LogoutAdmin(ctx)
	assert.Equal(t, Anonymous, s.AdminState())
	assert.Nil(t, s.Admin())
}

func TestSession_LoginAdminFailureIsUniform(t *testing.T) {
	ctx := context.Background()
	for _, cause := range []error{errors.New("EMAIL_NOT_FOUND"), errors.New("dial tcp: timeout")} {
		p := newFakeProvider()
		p.signInErr = cause
		store, _ := newPrefs()
		s := New(ctx, p, vipAuthFunc(noVip), store, logging.NewNop())

		_, err := s.LoginAdmin(ctx, "admin@qfvjug.de", "pw")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, cause)
		assert.Equal(t, Anonymous, s.AdminState())
		s.Close()
	}
}

func TestSession_VipLoginPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	ds := docstore.NewMemory()
	defer ds.Close()
	repos := repositories.New(ds, logging.NewNop())
	_, err := repos.VipUsers.Create(ctx, "fan", "secret")
	require.NoError(t, err)

	store, _ := newPrefs()
	s := New(ctx, newFakeProvider(), repos.VipUsers, store, logging.NewNop())

	assert.ErrorIs(t, s.RequireVip(), common.ErrUnauthorized)

	_, err = s.LoginVip(ctx, "fan", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, Anonymous, s.VipState())

	u, err := s.LoginVip(ctx, "fan", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fan", u.Username)
	assert.Empty(t, u.Password)
	assert.True(t, s.IsVip())
	s.Close()

	restored := New(ctx, newFakeProvider(), repos.VipUsers, store, logging.NewNop())
	defer restored.Close()
	require.True(t, restored.IsVip())
	assert.Equal(t, "fan", restored.Vip().Username)
	assert.Empty(t, restored.Vip().Password)

	require.NoError(t, restored.LogoutVip(ctx))
	assert.False(t, restored.IsVip())
	var stored models.VipUser
	assert.False(t, store.Get(ctx, prefs.KeyVipUser, &stored))
}

func TestSession_VipLoginStoreOutage(t *testing.T) {
	ctx := context.Background()
	outage := vipAuthFunc(func(ctx context.Context, username, password string) (*models.VipUser, error) {
		return nil, common.ErrPersistence
	})
	store, _ := newPrefs()
	s := New(ctx, newFakeProvider(), outage, store, logging.NewNop())
	defer s.Close()

	_, err := s.LoginVip(ctx, "fan", "secret")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, common.ErrPersistence)
	assert.False(t, s.IsVip())
}

func TestSession_CorruptVipEntryIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store, repo := newPrefs()
	require.NoError(t, repo.Set(ctx, common.StoragePrefix+prefs.KeyVipUser, []byte("{not json")))

	s := New(ctx, newFakeProvider(), vipAuthFunc(noVip), store, logging.NewNop())
	defer s.Close()

	assert.False(t, s.IsVip())
	assert.Equal(t, Anonymous, s.VipState())

	raw, err := repo.Get(ctx, common.StoragePrefix+prefs.KeyVipUser)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSession_VipEntrySurvivesReadError(t *testing.T) {
	ctx := context.Background()
	key := common.StoragePrefix + prefs.KeyVipUser
	repo := &flakyRepo{MemoryRepository: prefs.NewMemoryRepository(), failGets: 1}
	require.NoError(t, repo.MemoryRepository.Set(ctx, key, []byte(`{"id":"u1","username":"alice"}`)))
	store := prefs.NewStore(repo, logging.NewNop())

	s := New(ctx, newFakeProvider(), vipAuthFunc(noVip), store, logging.NewNop())
	assert.False(t, s.IsVip())
	s.Close()

	raw, err := repo.MemoryRepository.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","username":"alice"}`, string(raw))

	again := New(ctx, newFakeProvider(), vipAuthFunc(noVip), store, logging.NewNop())
	defer again.Close()
	require.True(t, again.IsVip())
	assert.Equal(t, "alice", again.Vip().Username)
}

func TestSession_VipEntryWithoutUsernameIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store, repo := newPrefs()
	key := common.StoragePrefix + prefs.KeyVipUser
	require.NoError(t, repo.Set(ctx, key, []byte(`{"id":"u1"}`)))

	s := New(ctx, newFakeProvider(), vipAuthFunc(noVip), store, logging.NewNop())
	defer s.Close()
	assert.False(t, s.IsVip())

	raw, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticating", Authenticating.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unknown", State(9).String())
}
