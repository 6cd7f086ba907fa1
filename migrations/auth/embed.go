// Package auth embeds the auth database migrations.
package auth

import "embed"

//go:embed *.sql
var Migrations embed.FS
