// Package migrations embeds the goose SQL migrations applied at startup
// or via the -migrate flag.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
