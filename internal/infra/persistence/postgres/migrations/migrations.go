// Package migrations embeds the goose SQL migrations for the users and reports schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
