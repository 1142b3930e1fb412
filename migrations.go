package influnest

import "embed"

// MigrationsFS holds the SQL schema applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
