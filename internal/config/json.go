package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/qfvjug/internal/flagx"
	"github.com/dmitrijs2005/qfvjug/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Interval fields use timex.Duration so both "300ms" and integer nanoseconds
// are accepted. Fields left out of the file keep their previous value.
type JsonConfig struct {
	StoreBackend   string `json:"store_backend"`
	DatabaseURL    string `json:"database_url"`
	DatabaseSecret string `json:"database_secret"`
	PostgresDSN    string `json:"postgres_dsn"`
	LocalDBPath    string `json:"local_db_path"`

	YouTubeAPIKey            string `json:"youtube_api_key"`
	YouTubeChannelID         string `json:"youtube_channel_id"`
	YouTubeAPIBase           string `json:"youtube_api_base"`
	YouTubeFeedBase          string `json:"youtube_feed_base"`
	YouTubeUseFeed           *bool  `json:"youtube_use_feed"`
	CatalogRequestsPerMinute int    `json:"catalog_requests_per_minute"`

	IdentityBackend    string         `json:"identity_backend"`
	FirebaseAPIKey     string         `json:"firebase_api_key"`
	AdminEmail         string         `json:"admin_email"`
	AdminPasswordHash  string         `json:"admin_password_hash"`
	SecretKey          string         `json:"secret_key"`
	AdminTokenValidity timex.Duration `json:"admin_token_validity"`

	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	PresignValidity timex.Duration `json:"presign_validity"`

	HTTPTimeout    timex.Duration `json:"http_timeout"`
	SearchDebounce timex.Duration `json:"search_debounce"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// parseJson loads the file named by -c / -config in args into config.
// Nothing happens when no file is named. An unreadable file or invalid JSON
// panics, same as a bad flag.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseURL, c.DatabaseURL)
	setString(&config.DatabaseSecret, c.DatabaseSecret)
	setString(&config.PostgresDSN, c.PostgresDSN)
	setString(&config.LocalDBPath, c.LocalDBPath)

	setString(&config.YouTubeAPIKey, c.YouTubeAPIKey)
	setString(&config.YouTubeChannelID, c.YouTubeChannelID)
	setString(&config.YouTubeAPIBase, c.YouTubeAPIBase)
	setString(&config.YouTubeFeedBase, c.YouTubeFeedBase)
	if c.YouTubeUseFeed != nil {
		config.YouTubeUseFeed = *c.YouTubeUseFeed
	}
	if c.CatalogRequestsPerMinute > 0 {
		config.CatalogRequestsPerMinute = c.CatalogRequestsPerMinute
	}

	setString(&config.IdentityBackend, c.IdentityBackend)
	setString(&config.FirebaseAPIKey, c.FirebaseAPIKey)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPasswordHash, c.AdminPasswordHash)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AdminTokenValidity, c.AdminTokenValidity)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PresignValidity, c.PresignValidity)

	setDuration(&config.HTTPTimeout, c.HTTPTimeout)
	setDuration(&config.SearchDebounce, c.SearchDebounce)

	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}
