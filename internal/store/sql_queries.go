// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/models"
)

const (
	objectsTable = "objects"

	columnKey    = "object_key"
	columnType   = "object_type"
	columnFields = "fields"

	upsertObjectsSuffix = "ON CONFLICT (object_key) DO UPDATE SET object_type = EXCLUDED.object_type, fields = EXCLUDED.fields"
)

// queryBuilder renders squirrel statements for one dialect.
type queryBuilder struct {
	dialect dialect
	sb      sq.StatementBuilderType
}

func newQueryBuilder(d dialect) queryBuilder {
	return queryBuilder{
		dialect: d,
		sb:      sq.StatementBuilder.PlaceholderFormat(d.placeholder()),
	}
}

func (b queryBuilder) selectObjects() sq.SelectBuilder {
	return b.sb.
		Select(columnKey, columnType, b.dialect.fieldsColumn()).
		From(objectsTable)
}

// buildSelectQuery translates q into a SELECT over the objects table ordered
// by key.
func (b queryBuilder) buildSelectQuery(q query.Query) (string, []any, error) {
	stmt := b.selectObjects().Where(sq.Eq{columnType: q.From()})

	for _, c := range q.Where() {
		want, err := clauseValue(c)
		if err != nil {
			return "", nil, err
		}
		stmt = stmt.Where(b.dialect.clause(c, want))
	}

	stmt = stmt.OrderBy(columnKey)

	offset, hasOffset := q.Offset()
	limit, hasLimit := q.Limit()
	if hasLimit {
		stmt = stmt.Limit(limit)
	} else if hasOffset && b.dialect.limitRequiredWithOffset() {
		stmt = stmt.Limit(math.MaxInt64)
	}
	if hasOffset {
		stmt = stmt.Offset(offset)
	}

	return toSQL(stmt)
}

func (b queryBuilder) buildSelectByKeysQuery(keys []string) (string, []any, error) {
	return toSQL(b.selectObjects().Where(sq.Eq{columnKey: keys}).OrderBy(columnKey))
}

func (b queryBuilder) buildDeleteByKeysQuery(keys []string) (string, []any, error) {
	return toSQL(b.sb.Delete(objectsTable).Where(sq.Eq{columnKey: keys}))
}

func (b queryBuilder) buildCountByTypeQuery(objectType string) (string, []any, error) {
	return toSQL(b.sb.Select("COUNT(*)").From(objectsTable).Where(sq.Eq{columnType: objectType}))
}

func (b queryBuilder) buildCountByKeysQuery(keys []string) (string, []any, error) {
	return toSQL(b.sb.Select("COUNT(*)").From(objectsTable).Where(sq.Eq{columnKey: keys}))
}

// buildUpsertQuery renders a single multi-row upsert. objects must not repeat
// a key.
func (b queryBuilder) buildUpsertQuery(objects []models.Object) (string, []any, error) {
	stmt := b.sb.Insert(objectsTable).Columns(columnKey, columnType, columnFields)

	for _, o := range objects {
		encoded, err := encodeFields(o.Fields)
		if err != nil {
			return "", nil, err
		}
		stmt = stmt.Values(o.Key, o.Type, b.dialect.fieldsValue(encoded))
	}

	return toSQL(stmt.Suffix(upsertObjectsSuffix))
}

func toSQL(s sq.Sqlizer) (string, []any, error) {
	query, args, err := s.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func encodeFields(fields map[string]any) (string, error) {
	if fields == nil {
		return "{}", nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingFields, err)
	}
	return string(data), nil
}

// jsonLiteral encodes a clause value as a JSON document.
func jsonLiteral(s scalar) string {
	data, err := json.Marshal(s.native())
	if err != nil {
		return "null"
	}
	return string(data)
}
