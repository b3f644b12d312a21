// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/logger"
)

// Storages holds the DAO selected by configuration and the connection it owns.
type Storages struct {
	DAO DAO
	db  *DB
}

// NewStorages opens the storage driver named in cfg. SQL drivers get their
// objects table migrated before use; unique lists the fields the memory
// driver enforces, the SQL schema carries the same constraints as indexes.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger, unique ...UniqueField) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case config.DriverMemory, "":
		log.Info().Str("func", "NewStorages").Msg("using in-memory storage")
		return &Storages{DAO: NewMemoryDAO(log, unique...)}, nil
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error migrating database")
		_ = db.Close()
		return nil, err
	}

	return &Storages{DAO: NewSQLDAO(db, log), db: db}, nil
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
