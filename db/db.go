package db

import "embed"

// Migrations holds the goose SQL migrations for the sql storage backends.
//
//go:embed migrations/*.sql
var Migrations embed.FS
