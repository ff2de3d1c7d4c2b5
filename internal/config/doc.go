// Package config loads runtime configuration for the site client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with QFVJUG_.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   document store backend (memory, rtdb, postgres)
//	-d string   realtime database URL
//	-p string   PostgreSQL DSN
//	-l string   local preference database path
//	-k string   YouTube API key
//	-ch string  YouTube channel id
//	-feed       read latest videos from the channel feed
//	-i string   identity backend (local, firebase)
//	-log string log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "300ms" or
// integer nanoseconds:
//
//	{
//	  "store_backend": "rtdb",
//	  "database_url": "https://example-rtdb.firebaseio.com/",
//	  "youtube_api_key": "AIza...",
//	  "search_debounce": "300ms"
//	}
package config
