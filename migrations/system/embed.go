// Package system embeds the system database migrations.
package system

import "embed"

//go:embed *.sql
var Migrations embed.FS
