// Package db embeds the database schema. Seed data lives in db/seed.
package db

import _ "embed"

// Schema contains the DDL statements for the catalog tables.
//
//go:embed migrations/001_schema.sql
var Schema string
