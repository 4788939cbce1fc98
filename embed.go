package fixmate

import "embed"

// MigrationsFS embeds the SQL migrations applied at startup.
//
//go:embed migrations
var MigrationsFS embed.FS
