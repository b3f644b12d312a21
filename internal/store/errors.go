// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by DAO methods. Callers should use [errors.Is] to
// match against these values.
var (
	// ErrPersistence is the parent of every storage failure.
	ErrPersistence = errors.New("persistence error")

	// ErrUniqueViolation is returned by Save when an object would share a
	// unique field value with another object of the same type.
	ErrUniqueViolation = fmt.Errorf("%w: unique constraint violated", ErrPersistence)

	// ErrNotSupported is returned for query actions the drivers do not
	// implement (UPDATE).
	ErrNotSupported = fmt.Errorf("%w: operation not supported", ErrPersistence)

	// ErrUnsupportedValue is returned when a clause value is not a string,
	// number, boolean or nil.
	ErrUnsupportedValue = fmt.Errorf("%w: unsupported clause value", ErrPersistence)

	// ErrUnknownDriver is returned by NewStorages for an unrecognised driver
	// name.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors. They all wrap [ErrPersistence].
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a query.
	ErrBuildingSQLQuery = fmt.Errorf("%w: error building sql query", ErrPersistence)

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = fmt.Errorf("%w: error executing sql query", ErrPersistence)

	// ErrExecutingStatement is returned when an INSERT or DELETE fails.
	ErrExecutingStatement = fmt.Errorf("%w: failed to execute statement", ErrPersistence)

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = fmt.Errorf("%w: failed to begin transaction", ErrPersistence)

	// ErrCommitingTransaction is returned when committing fails. The
	// transaction is rolled back at this point.
	ErrCommitingTransaction = fmt.Errorf("%w: failed to commit transaction", ErrPersistence)

	// ErrScanningRow is returned when a result row cannot be scanned or its
	// fields document cannot be decoded.
	ErrScanningRow = fmt.Errorf("%w: failed to scan object row", ErrPersistence)

	// ErrScanningRows is returned for an iteration error after the result set
	// is exhausted.
	ErrScanningRows = fmt.Errorf("%w: failed to scan object rows", ErrPersistence)

	// ErrEncodingFields is returned when object fields cannot be encoded as
	// JSON.
	ErrEncodingFields = fmt.Errorf("%w: failed to encode object fields", ErrPersistence)
)
