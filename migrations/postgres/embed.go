// Package migrations embeds the goose SQL migrations for Postgres.
package migrations

import "embed"

// FS contiene las migraciones, aplicadas por `tokenjohn migrate`.
//
//go:embed *.sql
var FS embed.FS
