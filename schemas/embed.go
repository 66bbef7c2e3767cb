// Package schemas provides the embedded SQL migrations for the MySQL storage driver.
package schemas

import "embed"

// Migrations contains all SQL migration files, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
