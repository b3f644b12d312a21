// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/migrations"
)

// DBTX is the subset of database/sql used by the SQL driver.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dialect captures what differs between the SQL engines behind [sqlDAO].
type dialect interface {
	// name is the dialect name passed to migrations.Migrate.
	name() string

	placeholder() sq.PlaceholderFormat

	// fieldsColumn is the select expression yielding the fields document as
	// text.
	fieldsColumn() string

	// fieldsValue wraps an encoded fields document for INSERT.
	fieldsValue(encoded string) any

	// clause translates a validated clause into a WHERE fragment.
	clause(c query.Clause, want scalar) sq.Sqlizer

	// limitRequiredWithOffset reports whether OFFSET needs an accompanying
	// LIMIT.
	limitRequiredWithOffset() bool
}

// DB is an open SQL connection together with its dialect and error
// classification.
type DB struct {
	*sql.DB
	dialect            dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate creates or upgrades the objects table.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect.name())
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return db.classify(err, ErrBeginningTransaction)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = db.classify(commitErr, ErrCommitingTransaction)
		}
	}()

	err = fn(ctx, tx)
	return err
}

// classify wraps a driver error in sentinel, or in [ErrUniqueViolation] when
// the driver reports a unique constraint failure.
func (db *DB) classify(err error, sentinel error) error {
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == UniqueViolation {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// retryable reports whether err is transient according to the classifier.
func (db *DB) retryable(err error) bool {
	return db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable
}
