// Package db provides the embedded database schema.
package db

import _ "embed"

// Schema contains the idempotent DDL for all shoplite tables.
//
//go:embed migrations/001_schema.sql
var Schema string
