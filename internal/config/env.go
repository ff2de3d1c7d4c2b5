package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/timex"
)

// EnvPrefix is prepended to every environment variable name read by parseEnv.
const EnvPrefix = "QFVJUG_"

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays QFVJUG_* variables. Empty variables are ignored.
// Malformed numeric, boolean or duration values panic.
func parseEnv(config *Config, lookup lookupFunc) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return
		}
		var d timex.Duration
		if err := d.UnmarshalJSON([]byte(strconv.Quote(v))); err != nil {
			panic(fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		}
		*dst = d.Duration
	}

	str("STORE_BACKEND", &config.StoreBackend)
	str("DATABASE_URL", &config.DatabaseURL)
	str("DATABASE_SECRET", &config.DatabaseSecret)
	str("POSTGRES_DSN", &config.PostgresDSN)
	str("LOCAL_DB_PATH", &config.LocalDBPath)

	str("YOUTUBE_API_KEY", &config.YouTubeAPIKey)
	str("YOUTUBE_CHANNEL_ID", &config.YouTubeChannelID)
	str("YOUTUBE_API_BASE", &config.YouTubeAPIBase)
	str("YOUTUBE_FEED_BASE", &config.YouTubeFeedBase)
	if v, ok := lookup(EnvPrefix + "YOUTUBE_USE_FEED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sYOUTUBE_USE_FEED: %w", EnvPrefix, err))
		}
		config.YouTubeUseFeed = b
	}
	if v, ok := lookup(EnvPrefix + "CATALOG_REQUESTS_PER_MINUTE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%sCATALOG_REQUESTS_PER_MINUTE: %w", EnvPrefix, err))
		}
		config.CatalogRequestsPerMinute = n
	}

	str("IDENTITY_BACKEND", &config.IdentityBackend)
	str("FIREBASE_API_KEY", &config.FirebaseAPIKey)
	str("ADMIN_EMAIL", &config.AdminEmail)
	str("ADMIN_PASSWORD_HASH", &config.AdminPasswordHash)
	str("SECRET_KEY", &config.SecretKey)
	dur("ADMIN_TOKEN_VALIDITY", &config.AdminTokenValidity)

	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	dur("PRESIGN_VALIDITY", &config.PresignValidity)

	dur("HTTP_TIMEOUT", &config.HTTPTimeout)
	dur("SEARCH_DEBOUNCE", &config.SearchDebounce)

	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FORMAT", &config.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
