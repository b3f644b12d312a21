// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/migrations"
)

// NewConnectSQLite opens an embedded SQLite database. The file named by the
// DSN is created when missing.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// a single writer avoids SQLITE_BUSY between pooled connections
	conn.SetMaxOpenConns(1)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting database: %w", err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return newSQLiteDB(conn, log), nil
}

func newSQLiteDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            sqliteDialect{},
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
	}
}

// sqliteDialect stores fields as JSON text and reads them with the JSON1
// functions. json_type guards keep values of different kinds from comparing.
type sqliteDialect struct{}

func (sqliteDialect) name() string { return migrations.DialectSQLite }

func (sqliteDialect) placeholder() sq.PlaceholderFormat { return sq.Question }

func (sqliteDialect) fieldsColumn() string { return "fields" }

func (sqliteDialect) fieldsValue(encoded string) any { return encoded }

func (sqliteDialect) limitRequiredWithOffset() bool { return true }

func (sqliteDialect) clause(c query.Clause, want scalar) sq.Sqlizer {
	path := fmt.Sprintf("'$.%s'", c.Field)
	value := fmt.Sprintf("json_extract(fields, %s)", path)

	if want.kind == kindNull {
		if c.Operand == query.EQ {
			return sq.Expr(value + " IS NULL")
		}
		return sq.Expr(value + " IS NOT NULL")
	}

	guard := fmt.Sprintf("json_type(fields, %s) IN (%s)", path, sqliteTypes(want))
	arg := want.native()
	if want.kind == kindBool {
		arg = boolInt(want.b)
	}

	switch c.Operand {
	case query.NE:
		return sq.Expr(fmt.Sprintf("NOT COALESCE(%s AND %s = ?, 0)", guard, value), arg)
	default:
		return sq.Expr(fmt.Sprintf("(%s AND %s %s ?)", guard, value, c.Operand), arg)
	}
}

// sqliteTypes lists the json_type names of a scalar kind.
func sqliteTypes(s scalar) string {
	switch s.kind {
	case kindNumber:
		return "'integer', 'real'"
	case kindBool:
		return "'true', 'false'"
	default:
		return "'text'"
	}
}
