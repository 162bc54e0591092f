// Package migrations embeds the SQLite schema for saved positions.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
