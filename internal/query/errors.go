// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is the parent of every error returned by [Builder.Build].
var ErrInvalidQuery = errors.New("invalid query")

var (
	// ErrNoAction is returned when none of Select, Delete or Update was called.
	ErrNoAction = fmt.Errorf("%w: action is not set", ErrInvalidQuery)

	// ErrNoFrom is returned when the target object type is empty.
	ErrNoFrom = fmt.Errorf("%w: object type is not set", ErrInvalidQuery)

	// ErrEmptyField is returned for a clause without a field name.
	ErrEmptyField = fmt.Errorf("%w: clause field is empty", ErrInvalidQuery)

	// ErrInvalidField is returned for a clause whose field name contains
	// characters other than letters, digits and underscores.
	ErrInvalidField = fmt.Errorf("%w: clause field is not an identifier", ErrInvalidQuery)

	// ErrInvalidOperand is returned for an unknown comparison operand.
	ErrInvalidOperand = fmt.Errorf("%w: unknown operand", ErrInvalidQuery)

	// ErrNilOrdering is returned when an ordering operand is used with a nil value.
	ErrNilOrdering = fmt.Errorf("%w: ordering operand with nil value", ErrInvalidQuery)

	// ErrNegativeRange is returned for a negative offset or limit.
	ErrNegativeRange = fmt.Errorf("%w: negative offset or limit", ErrInvalidQuery)
)
