// Package migrations embeds the notifier's schema files.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
