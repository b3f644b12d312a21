// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/models"
)

// DAO is the persistence contract every storage driver satisfies. Drivers
// store generic [models.Object] records and know nothing about credentials.
//
// Every failure wraps [ErrPersistence]. Returned objects never share field
// maps with the driver.
type DAO interface {
	// Query runs a SELECT or DELETE restricted to q.From() with every clause
	// applied conjunctively, then offset and limit. Results are ordered by
	// key. DELETE returns the removed objects. UPDATE fails with
	// [ErrNotSupported].
	Query(ctx context.Context, q query.Query) ([]models.Object, error)

	// Get returns the objects stored under keys, in request order. Missing
	// keys are omitted.
	Get(ctx context.Context, keys ...string) ([]models.Object, error)

	// Save upserts whole objects. A call either stores every object or none.
	// A driver-enforced unique field conflict fails with [ErrUniqueViolation].
	Save(ctx context.Context, objects ...models.Object) error

	// Delete removes objects by key. Deleting absent objects is a no-op.
	Delete(ctx context.Context, objects ...models.Object) error

	// Exists reports whether every object's key is stored. It is true for an
	// empty argument list.
	Exists(ctx context.Context, objects ...models.Object) (bool, error)

	// Count returns the number of stored objects of objectType.
	Count(ctx context.Context, objectType string) (int64, error)
}

// ErrorClassificator maps driver errors to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
