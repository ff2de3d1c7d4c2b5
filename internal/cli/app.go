package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/blob"
	"github.com/dmitrijs2005/qfvjug/internal/catalog"
	"github.com/dmitrijs2005/qfvjug/internal/config"
	"github.com/dmitrijs2005/qfvjug/internal/docstore"
	"github.com/dmitrijs2005/qfvjug/internal/identity"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/prefs"
	"github.com/dmitrijs2005/qfvjug/internal/repositories"
	"github.com/dmitrijs2005/qfvjug/internal/search"
	"github.com/dmitrijs2005/qfvjug/internal/services"
	"github.com/dmitrijs2005/qfvjug/internal/session"
)

// App holds the services behind the REPL and the resources to release on exit.
type App struct {
	content   *services.ContentService
	downloads *services.DownloadService
	vip       *services.VipService
	admin     *services.AdminService
	session   *session.Session

	videoSearch    *search.Searcher[models.VideoSummary]
	downloadSearch *search.Searcher[models.DownloadItem]
	category       string

	reader *bufio.Reader
	out    io.Writer
	logger logging.Logger
	now    func() time.Time

	closers []func() error
}

// NewApp opens every backend selected by cfg. On error whatever was already
// opened is closed again.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (app *App, err error) {
	var closers []func() error
	defer func() {
		if err != nil {
			closeAll(closers)
		}
	}()

	client := &http.Client{Timeout: cfg.HTTPTimeout}

	store, err := docstore.Open(ctx, cfg, client, logger)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	closers = append(closers, store.Close)

	prefRepo, db, err := prefs.InitDatabase(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	closers = append(closers, db.Close)
	prefStore := prefs.NewStore(prefRepo, logger)

	provider, err := identity.New(ctx, cfg, prefStore, client, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, provider.Close)

	repos := repositories.New(store, logger)
	sess := session.New(ctx, provider, repos.VipUsers, prefStore, logger)
	closers = append(closers, func() error { sess.Close(); return nil })

	cat := catalog.New(cfg, client, logger)
	storageOpts := blob.OptionsFromConfig(cfg)
	storageOpts.HTTPClient = client
	presigner := blob.NewPresigner(storageOpts)

	app = newApp(
		services.NewContentService(repos.News, cat, prefs.NewFavorites(prefStore), logger),
		services.NewDownloadService(repos.Downloads, sess, presigner, logger),
		services.NewVipService(repos.VipContent, sess, presigner),
		services.NewAdminService(repos, sess, presigner),
		sess,
		in, out, logger,
		cfg.SearchDebounce,
	)
	app.closers = closers
	return app, nil
}

func newApp(
	content *services.ContentService,
	downloads *services.DownloadService,
	vip *services.VipService,
	admin *services.AdminService,
	sess *session.Session,
	in io.Reader, out io.Writer, logger logging.Logger,
	debounce time.Duration,
) *App {
	return &App{
		content:        content,
		downloads:      downloads,
		vip:            vip,
		admin:          admin,
		session:        sess,
		videoSearch:    search.NewSearcher(nil, search.Videos, debounce),
		downloadSearch: search.NewSearcher(nil, search.Downloads, debounce),
		category:       search.CategoryAll,
		reader:         bufio.NewReader(in),
		out:            out,
		logger:         logger,
		now:            time.Now,
	}
}

// Run waits for the session to settle and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	readyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := a.session.WaitReady(readyCtx); err != nil {
		a.logger.Warn(ctx, "admin session state not known yet", "error", err)
	}
	cancel()

	fmt.Fprintln(a.out, "Willkommen bei qfvjug (help zeigt alle Befehle)")
	runREPL(ctx, a, a.status, a.reader, a.out)
}

// Close releases every backend in reverse opening order.
func (a *App) Close() error {
	a.videoSearch.Close()
	a.downloadSearch.Close()
	return closeAll(a.closers)
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) status() string {
	s := ""
	if u := a.session.Admin(); u != nil && a.session.IsAdmin() {
		s = "admin:" + u.Email
	}
	if u := a.session.Vip(); u != nil && a.session.IsVip() {
		if s != "" {
			s += " "
		}
		s += "vip:" + u.Username
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

// report prints a user-facing message for err and logs it.
func (a *App) report(ctx context.Context, action string, err error) {
	a.logger.Debug(ctx, action+" failed", "error", err)
	fmt.Fprintf(a.out, "Fehler: %s\n", userMessage(err))
}
