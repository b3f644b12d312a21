// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations bootstraps the objects table used by the SQL storage
// drivers. Each dialect keeps its own goose migrations in a sub-directory.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// Dialect names accepted by [Migrate].
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// gooseDialects maps a dialect to its goose dialect name.
var gooseDialects = map[string]goose.Dialect{
	DialectPostgres: goose.DialectPostgres,
	DialectSQLite:   goose.DialectSQLite3,
}

// goose keeps its base FS and dialect in package state.
var mu sync.Mutex

// Migrate applies every pending migration of dialect to db.
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("migration error: unknown dialect %q", dialect)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(gooseDialect)); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dialect); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
