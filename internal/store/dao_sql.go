// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/models"
)

// sqlDAO implements [DAO] on a single "objects" table shared by every object
// type. Fields are stored as one JSON document per row.
type sqlDAO struct {
	db      *DB
	queries queryBuilder
	logger  *logger.Logger
}

// NewSQLDAO constructs a [DAO] backed by db. The objects table must exist;
// see [DB.Migrate].
func NewSQLDAO(db *DB, log *logger.Logger) DAO {
	log.Debug().Str("dialect", db.dialect.name()).Msg("creating sql dao")
	return &sqlDAO{
		db:      db,
		queries: newQueryBuilder(db.dialect),
		logger:  log,
	}
}

func (d *sqlDAO) Query(ctx context.Context, q query.Query) ([]models.Object, error) {
	log := logger.FromContext(ctx)

	switch q.Action() {
	case query.ActionUpdate:
		return nil, ErrNotSupported
	case query.ActionSelect, query.ActionDelete:
	default:
		return nil, fmt.Errorf("%w: %w", ErrPersistence, query.ErrNoAction)
	}

	stmt, args, err := d.queries.buildSelectQuery(q)
	if err != nil {
		log.Err(err).Str("func", "sqlDAO.Query").Str("query", q.String()).Msg("failed to build query")
		return nil, err
	}

	if q.Action() == query.ActionSelect {
		return d.queryObjects(ctx, d.db, stmt, args)
	}

	var deleted []models.Object
	err = d.db.WithTx(ctx, func(ctx context.Context, tx DBTX) error {
		matched, err := d.queryObjects(ctx, tx, stmt, args)
		if err != nil {
			return err
		}
		if err = d.deleteKeys(ctx, tx, models.Keys(matched...)); err != nil {
			return err
		}
		deleted = matched
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "sqlDAO.Query").Str("query", q.String()).Msg("failed to delete by query")
		return nil, err
	}

	return deleted, nil
}

func (d *sqlDAO) Get(ctx context.Context, keys ...string) ([]models.Object, error) {
	if len(keys) == 0 {
		return []models.Object{}, nil
	}

	stmt, args, err := d.queries.buildSelectByKeysQuery(keys)
	if err != nil {
		return nil, err
	}

	found, err := d.queryObjects(ctx, d.db, stmt, args)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]models.Object, len(found))
	for _, o := range found {
		byKey[o.Key] = o
	}

	result := make([]models.Object, 0, len(found))
	for _, key := range keys {
		if o, ok := byKey[key]; ok {
			result = append(result, o)
			delete(byKey, key)
		}
	}

	return result, nil
}

func (d *sqlDAO) Save(ctx context.Context, objects ...models.Object) error {
	if len(objects) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	batch := dedupeByKey(objects)
	for _, o := range batch {
		if o.Key == "" {
			return fmt.Errorf("%w: object without key", ErrPersistence)
		}
	}

	stmt, args, err := d.queries.buildUpsertQuery(batch)
	if err != nil {
		log.Err(err).Str("func", "sqlDAO.Save").Msg("failed to build upsert")
		return err
	}

	err = d.db.WithTx(ctx, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return d.db.classify(err, ErrExecutingStatement)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqlDAO.Save").
			Int("objects", len(batch)).
			Bool("retryable", d.db.retryable(err)).
			Msg("failed to save objects")
		return err
	}

	return nil
}

func (d *sqlDAO) Delete(ctx context.Context, objects ...models.Object) error {
	if len(objects) == 0 {
		return nil
	}

	if err := d.deleteKeys(ctx, d.db, models.Keys(objects...)); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlDAO.Delete").Msg("failed to delete objects")
		return err
	}

	return nil
}

func (d *sqlDAO) Exists(ctx context.Context, objects ...models.Object) (bool, error) {
	unique := make(map[string]struct{}, len(objects))
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		if _, ok := unique[o.Key]; !ok {
			unique[o.Key] = struct{}{}
			keys = append(keys, o.Key)
		}
	}
	if len(keys) == 0 {
		return true, nil
	}

	stmt, args, err := d.queries.buildCountByKeysQuery(keys)
	if err != nil {
		return false, err
	}

	n, err := d.count(ctx, stmt, args)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlDAO.Exists").Msg("failed to count keys")
		return false, err
	}

	return n == int64(len(keys)), nil
}

func (d *sqlDAO) Count(ctx context.Context, objectType string) (int64, error) {
	stmt, args, err := d.queries.buildCountByTypeQuery(objectType)
	if err != nil {
		return 0, err
	}

	n, err := d.count(ctx, stmt, args)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqlDAO.Count").Str("type", objectType).Msg("failed to count objects")
		return 0, err
	}

	return n, nil
}

func (d *sqlDAO) count(ctx context.Context, stmt string, args []any) (int64, error) {
	var n int64
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, d.db.classify(err, ErrExecutingQuery)
	}
	return n, nil
}

func (d *sqlDAO) deleteKeys(ctx context.Context, db DBTX, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	stmt, args, err := d.queries.buildDeleteByKeysQuery(keys)
	if err != nil {
		return err
	}

	if _, err = db.ExecContext(ctx, stmt, args...); err != nil {
		return d.db.classify(err, ErrExecutingStatement)
	}

	return nil
}

// queryObjects runs a select returning (key, type, fields) rows.
func (d *sqlDAO) queryObjects(ctx context.Context, db DBTX, stmt string, args []any) ([]models.Object, error) {
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, d.db.classify(err, ErrExecutingQuery)
	}
	defer rows.Close()

	objects := make([]models.Object, 0)
	for rows.Next() {
		var (
			o      models.Object
			fields []byte
		)
		if err = rows.Scan(&o.Key, &o.Type, &fields); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if o.Fields, err = decodeFields(fields); err != nil {
			return nil, fmt.Errorf("%w: object %s: %w", ErrScanningRow, o.Key, err)
		}
		objects = append(objects, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return objects, nil
}

// decodeFields decodes a fields document keeping numbers as json.Number.
func decodeFields(data []byte) (map[string]any, error) {
	fields := make(map[string]any)
	if len(data) == 0 {
		return fields, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]any)
	}

	return fields, nil
}
