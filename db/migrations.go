// Package db embeds the goose migrations for the render log.
package db

import "embed"

// Migrations holds migrations/*.sql; use goose.SetBaseFS(db.Migrations) with dir "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations passed to goose.
const MigrationsDir = "migrations"
