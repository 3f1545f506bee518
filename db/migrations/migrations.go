// Package migrations embeds the SQL migrations so the migration binary does
// not depend on its working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
