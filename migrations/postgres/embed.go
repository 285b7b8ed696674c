// Package migrations embeds the SQL schema files applied at startup when
// flags.migrate is set.
package migrations

import "embed"

// FS contains the ordered schema migrations.
//
//go:embed *.sql
var FS embed.FS
