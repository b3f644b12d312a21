// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/migrations"
)

// NewConnectPostgres opens and pings a PostgreSQL connection through the pgx
// database/sql driver.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting database: %w", err)
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return newPostgresDB(conn, log), nil
}

func newPostgresDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            postgresDialect{},
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             log,
	}
}

// postgresDialect stores fields as JSONB and compares them as JSONB values,
// so numbers compare numerically and strings lexically.
type postgresDialect struct{}

func (postgresDialect) name() string { return migrations.DialectPostgres }

func (postgresDialect) placeholder() sq.PlaceholderFormat { return sq.Dollar }

func (postgresDialect) fieldsColumn() string { return "fields::text" }

func (postgresDialect) fieldsValue(encoded string) any { return sq.Expr("?::jsonb", encoded) }

func (postgresDialect) limitRequiredWithOffset() bool { return false }

func (postgresDialect) clause(c query.Clause, want scalar) sq.Sqlizer {
	field := fmt.Sprintf("fields->'%s'", c.Field)

	if want.kind == kindNull {
		if c.Operand == query.EQ {
			return sq.Expr(fmt.Sprintf("(%[1]s IS NULL OR %[1]s = 'null'::jsonb)", field))
		}
		return sq.Expr(fmt.Sprintf("(%[1]s IS NOT NULL AND %[1]s <> 'null'::jsonb)", field))
	}

	encoded := jsonLiteral(want)
	switch c.Operand {
	case query.EQ:
		return sq.Expr(field+" = ?::jsonb", encoded)
	case query.NE:
		return sq.Expr(field+" IS DISTINCT FROM ?::jsonb", encoded)
	default:
		return sq.Expr(
			fmt.Sprintf("(jsonb_typeof(%[1]s) = ? AND %[1]s %[2]s ?::jsonb)", field, c.Operand),
			jsonbType(want), encoded,
		)
	}
}

// jsonbType is the jsonb_typeof name of a scalar kind.
func jsonbType(s scalar) string {
	switch s.kind {
	case kindNumber:
		return "number"
	case kindBool:
		return "boolean"
	default:
		return "string"
	}
}
