// Package migrations embeds the schema of the local preference database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
