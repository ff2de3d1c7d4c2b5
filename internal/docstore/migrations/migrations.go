// Package migrations embeds the SQL migrations of the Postgres document store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
