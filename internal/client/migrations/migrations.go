// Package migrations embeds the schema of the console's local SQLite file.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
