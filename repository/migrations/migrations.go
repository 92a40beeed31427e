// Package migrations embeds the SQLite schema for accepted quotes.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
