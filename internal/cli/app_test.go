package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/catalog"
	"github.com/dmitrijs2005/qfvjug/internal/config"
	"github.com/dmitrijs2005/qfvjug/internal/docstore"
	"github.com/dmitrijs2005/qfvjug/internal/identity"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
	"github.com/dmitrijs2005/qfvjug/internal/services"
	"github.com/dmitrijs2005/qfvjug/internal/session"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type passthrough struct{}

func (passthrough) Resolve(ctx context.Context, rawURL string) (string, error) { return rawURL, nil }

func (passthrough) Upload(ctx context.Context, path string) (string, int64, error) {
	return "s3://downloads/" + filepath.Base(path), 2048, nil
}

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	repos *repositories.Repositories
	out   *syncBuffer
}

// newTestApp builds an App over in-memory backends that reads input from
// the given lines. The admin account is admin@qfvjug.de / pw.
func newTestApp(t *testing.T, lines ...string) (*App, *testEnv) {
	t.Helper()
	store := docstore.NewMemory()
	t.Cleanup(func() { store.Close() })
	return newTestAppOver(t, repositories.New(store, logging.NewNop()), lines...)
}

// newTestAppOver is newTestApp over existing repositories, with fresh local
// preferences.
func newTestAppOver(t *testing.T, repos *repositories.Repositories, lines ...string) (*App, *testEnv) {
	t.Helper()
	ctx := context.Background()

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	prefStore := prefs.NewStore(prefs.NewMemoryRepository(), logging.NewNop())
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	provider := identity.NewLocal(ctx, identity.LocalOptions{
		Email:        "admin@qfvjug.de",
		PasswordHash: string(hash),
		Secret:       []byte("k"),
		Validity:     time.Hour,
	}, prefStore, logging.NewNop())
	t.Cleanup(func() { provider.Close() })

	sess := session.New(ctx, provider, repos.VipUsers, prefStore, logging.NewNop())
	t.Cleanup(sess.Close)

	cat := catalog.NewDemo(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	out := &syncBuffer{}
	input := strings.NewReader(strings.Join(lines, "\n") + "\n")

	app := newApp(
		services.NewContentService(repos.News, cat, prefs.NewFavorites(prefStore), logging.NewNop()),
		services.NewDownloadService(repos.Downloads, sess, passthrough{}, logging.NewNop()),
		services.NewVipService(repos.VipContent, sess, passthrough{}),
		services.NewAdminService(repos, sess, passthrough{}),
		sess,
		input, out, logging.NewNop(),
		10*time.Millisecond,
	)
	t.Cleanup(func() { app.Close() })
	return app, &testEnv{repos: repos, out: out}
}

func TestApp_AdminPublishesNews(t *testing.T) {
	ctx := context.Background()
	app, env := newTestApp(t,
		"admin stats",
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin addnews",
		"Neues Video",
		"Jetzt online",
		"video",
		"high",
		"",
		"news",
		"admin logout",
		"admin stats",
		"exit",
	)

	app.Run(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Keine Berechtigung")
	assert.Contains(t, out, "Angemeldet als admin@qfvjug.de.")
	assert.Contains(t, out, "[video/high] Neues Video")
	assert.Contains(t, out, "Admin abgemeldet.")

	news := env.repos.News.GetAll(ctx)
	require.Len(t, news, 1)
	assert.Equal(t, models.PriorityHigh, news[0].Priority)
}

func TestApp_AdminLoginRejected(t *testing.T) {
	app, env := newTestApp(t,
		"admin login",
		"not-an-email",
		"admin login",
		"admin@qfvjug.de",
		"wrong",
		"exit",
	)

	app.Run(context.Background())

	out := env.out.String()
	assert.Contains(t, out, "gültige E-Mail-Adresse")
	assert.Contains(t, out, "Ungültige Anmeldedaten.")
	assert.NotContains(t, out, "(admin:")
}

func TestApp_VipDownloadFlow(t *testing.T) {
	ctx := context.Background()
	app, env := newTestApp(t)

	_, err := env.repos.VipUsers.Create(ctx, "fan", "secret")
	require.NoError(t, err)
	d, err := models.NewDownloadItem("Secret Pack", "Minecraft", "https://example.com/secret.zip")
	require.NoError(t, err)
	d.IsVipOnly = true
	d, err = env.repos.Downloads.Add(ctx, d)
	require.NoError(t, err)
	c, err := models.NewVipContentItem("Bonus", "Nur für VIPs")
	require.NoError(t, err)
	_, err = env.repos.VipContent.Add(ctx, c)
	require.NoError(t, err)

	app.reader.Reset(strings.NewReader(strings.Join([]string{
		"downloads",
		"download " + d.ID,
		"vip content",
		"vip login",
		"fan",
		"secret",
		"download " + d.ID,
		"vip content",
		"vip logout",
		"exit",
	}, "\n") + "\n"))
	app.Run(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Secret Pack [VIP]")
	assert.Contains(t, out, "nur für VIP-Mitglieder")
	assert.Contains(t, out, "Willkommen, fan!")
	assert.Contains(t, out, "Download: https://example.com/secret.zip")
	assert.Contains(t, out, "Bonus")
	assert.Contains(t, out, "VIP abgemeldet.")

	got, err := env.repos.Downloads.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.DownloadCount)
}

func TestApp_VideosAndFavorites(t *testing.T) {
	app, env := newTestApp(t,
		"subs",
		"videos",
		"category tutorial",
		"videos",
		"video https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"fav demo-video-0",
		"favorites",
		"fav demo-video-0",
		"favorites",
		"exit",
	)

	app.Run(context.Background())

	out := env.out.String()
	assert.Contains(t, out, "Abonnenten: 42.5K")
	assert.Contains(t, out, "demo-video-0")
	assert.Contains(t, out, "Kategorie: tutorial")
	assert.Contains(t, out, "Demo Video - Awesome Content")
	assert.Contains(t, out, "demo-video-0 zu Favoriten hinzugefügt.")
	assert.Contains(t, out, "demo-video-0 aus Favoriten entfernt.")
	assert.Contains(t, out, "Noch keine Favoriten.")
}

func TestApp_AdminVipUsers(t *testing.T) {
	app, env := newTestApp(t,
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin vipadd",
		"fan",
		"secret",
		"admin viplist",
		"exit",
	)

	app.Run(context.Background())

	out := env.out.String()
	assert.Contains(t, out, "VIP-Nutzer fan angelegt")
	assert.Contains(t, out, "Passwort: ***")
	assert.Contains(t, out, "letzter Login: nie")
	assert.NotContains(t, out, "Passwort: secret")
}

func TestApp_WatchNews(t *testing.T) {
	ctx := context.Background()
	app, env := newTestApp(t)

	n, err := models.NewNewsItem("Live", "Eintrag")
	require.NoError(t, err)
	_, err = env.repos.News.Add(ctx, n)
	require.NoError(t, err)

	// Enter arrives only after the first snapshot was printed.
	pr, pw := io.Pipe()
	defer pw.Close()
	app.reader.Reset(pr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.WatchNews(ctx)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(env.out.String(), "[announcement/medium] Live")
	}, 2*time.Second, 10*time.Millisecond)
	_, _ = pw.Write([]byte("\n"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestNewApp_DefaultBackends(t *testing.T) {
	goose.SetLogger(goose.NopLogger())
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.LocalDBPath = ":memory:"

	app, err := NewApp(context.Background(), cfg, logging.NewNop(), strings.NewReader("news\nexit\n"), &bytes.Buffer{})
	require.NoError(t, err)

	app.Run(context.Background())
	assert.NoError(t, app.Close())
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreBackend = "cassandra"

	_, err := NewApp(context.Background(), cfg, logging.NewNop(), strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestApp_AdminAddDownloadUploadsLocalFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pack.zip")
	require.NoError(t, os.WriteFile(path, []byte("zip"), 0o600))

	app, env := newTestApp(t,
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin upload "+path,
		"admin adddownload",
		"Texture Pack",
		"Minecraft",
		"HD Texturen",
		path,
		"j",
		"exit",
	)

	app.Run(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Hochgeladen: s3://downloads/pack.zip (2 KB)")
	assert.Contains(t, out, "Download ")

	items := env.repos.Downloads.GetAll(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "s3://downloads/pack.zip", items[0].DownloadURL)
	assert.Equal(t, "2 KB", items[0].FileSize)
	assert.True(t, items[0].IsVipOnly)
	assert.Equal(t, "HD Texturen", items[0].Description)
}

func TestApp_AdminHiddenNewsEditedVisible(t *testing.T) {
	ctx := context.Background()
	app, env := newTestApp(t,
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin addnews",
		"Vorschau",
		"Bald verfügbar",
		"",
		"",
		"n",
		"news",
		"admin news",
		"exit",
	)
	app.Run(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Keine News vorhanden.")
	assert.Contains(t, out, "Vorschau [versteckt]")

	news := env.repos.News.GetAll(ctx)
	require.Len(t, news, 1)
	assert.False(t, news[0].IsVisible)
	id := news[0].ID

	app2, env2 := newTestAppOver(t, env.repos,
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin editnews "+id,
		"Jetzt da",
		"",
		"",
		"high",
		"j",
		"news",
		"exit",
	)
	app2.Run(ctx)

	out = env2.out.String()
	assert.Contains(t, out, "Titel [Vorschau]: ")
	assert.Contains(t, out, "News "+id+" gespeichert.")
	assert.Contains(t, out, "[announcement/high] Jetzt da")

	got, err := env.repos.News.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bald verfügbar", got.Content)
	assert.True(t, got.IsVisible)
}

func TestApp_AdminEditDownloadResetsCount(t *testing.T) {
	ctx := context.Background()
	_, env := newTestApp(t)

	d, err := models.NewDownloadItem("Pack", "Minecraft", "https://example.com/p.zip")
	require.NoError(t, err)
	d, err = env.repos.Downloads.Add(ctx, d)
	require.NoError(t, err)
	_, err = env.repos.Downloads.IncrementDownloadCount(ctx, d.ID)
	require.NoError(t, err)

	app, env := newTestAppOver(t, env.repos,
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin downloads",
		"admin editdownload "+d.ID,
		"Pack v2",
		"",
		"",
		"",
		"",
		"n",
		"admin downloads",
		"admin deldownload "+d.ID,
		"admin downloads",
		"admin editdownload missing",
		"exit",
	)
	app.Run(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Pack (Minecraft) 1 Downloads")
	assert.Contains(t, out, "Pack v2 [versteckt] (Minecraft) 0 Downloads")
	assert.Contains(t, out, "Download "+d.ID+" gelöscht.")
	assert.Contains(t, out, "Keine Downloads vorhanden.")
	assert.Contains(t, out, "Nicht gefunden.")
}

func TestApp_AdminVipContent(t *testing.T) {
	ctx := context.Background()
	app, env := newTestApp(t,
		"admin vipcontent add",
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin vipcontent add",
		"Bonus Map",
		"Minecraft",
		"Nur für Fans",
		"s3://downloads/bonus.zip",
		"admin vipcontent",
		"exit",
	)
	app.Run(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Keine Berechtigung")
	assert.Contains(t, out, "Bonus Map (Minecraft)")

	items := env.repos.VipContent.GetAll(ctx)
	require.Len(t, items, 1)
	id := items[0].ID

	app2, env2 := newTestAppOver(t, env.repos,
		"admin login",
		"admin@qfvjug.de",
		"pw",
		"admin vipcontent edit "+id,
		"",
		"",
		"",
		"",
		"n",
		"admin vipcontent",
		"admin vipcontent del "+id,
		"admin vipcontent",
		"exit",
	)
	app2.Run(ctx)

	out = env2.out.String()
	assert.Contains(t, out, "Bonus Map [versteckt] (Minecraft)")
	assert.Contains(t, out, "VIP-Inhalt "+id+" gelöscht.")
	assert.Contains(t, out, "Keine VIP-Inhalte vorhanden.")
	assert.Empty(t, env.repos.VipContent.GetAll(ctx))
}
