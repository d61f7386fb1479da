// Package schema embeds the SQL table definitions for the SQLite store.
package schema

import "embed"

// FS contains all SQL schema files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
