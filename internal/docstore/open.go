package docstore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/qfvjug/internal/config"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
)

// Open returns the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, client *http.Client, logger logging.Logger) (Store, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		logger.Info(ctx, "using in-memory document store")
		return NewMemory(), nil
	case "rtdb":
		logger.Info(ctx, "using realtime database", "url", cfg.DatabaseURL)
		return NewRTDB(cfg.DatabaseURL, cfg.DatabaseSecret, client, logger)
	case "postgres":
		logger.Info(ctx, "using postgres document store")
		return OpenPostgres(ctx, cfg.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
