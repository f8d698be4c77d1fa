package appfs

import "embed"

// FS embeds the database migrations.
//go:embed migrations
var FS embed.FS
