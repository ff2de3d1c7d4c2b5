package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-s string   document store backend
//	-d string   realtime database URL
//	-p string   PostgreSQL DSN
//	-l string   local preference database path
//	-k string   YouTube API key
//	-ch string  YouTube channel id
//	-feed       use the channel feed for latest videos
//	-i string   identity backend
//	-t int      admin token validity, minutes
//	-log string log level
//
// Unknown flags are filtered out first so other components can share the
// command line. A parse error panics.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-p", "-l", "-k", "-ch", "-feed", "-i", "-t", "-log"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "document store backend (memory, rtdb, postgres)")
	fs.StringVar(&config.DatabaseURL, "d", config.DatabaseURL, "realtime database URL")
	fs.StringVar(&config.PostgresDSN, "p", config.PostgresDSN, "PostgreSQL DSN")
	fs.StringVar(&config.LocalDBPath, "l", config.LocalDBPath, "local preference database path")
	fs.StringVar(&config.YouTubeAPIKey, "k", config.YouTubeAPIKey, "YouTube API key")
	fs.StringVar(&config.YouTubeChannelID, "ch", config.YouTubeChannelID, "YouTube channel id")
	fs.BoolVar(&config.YouTubeUseFeed, "feed", config.YouTubeUseFeed, "read latest videos from the channel feed")
	fs.StringVar(&config.IdentityBackend, "i", config.IdentityBackend, "identity backend (local, firebase)")
	tokenValidity := fs.Int("t", int(config.AdminTokenValidity.Minutes()), "admin token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "log", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AdminTokenValidity = time.Duration(*tokenValidity) * time.Minute
}
