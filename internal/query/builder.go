// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"errors"
	"fmt"
)

// Builder assembles a [Query]. Errors are collected along the way and
// reported once by [Builder.Build], so calls can be chained:
//
//	q, err := query.NewBuilder().
//		Select().
//		From("credential").
//		Where("email_address", query.EQ, "a@x.com").
//		Limit(1).
//		Build()
type Builder struct {
	q   Query
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Select sets the action to [ActionSelect].
func (b *Builder) Select() *Builder {
	b.q.action = ActionSelect
	return b
}

// Delete sets the action to [ActionDelete].
func (b *Builder) Delete() *Builder {
	b.q.action = ActionDelete
	return b
}

// Update sets the action to [ActionUpdate].
func (b *Builder) Update() *Builder {
	b.q.action = ActionUpdate
	return b
}

// From restricts the query to objects of the given type.
func (b *Builder) From(objectType string) *Builder {
	b.q.from = objectType
	return b
}

// Where appends a clause. Clauses are combined with logical AND.
func (b *Builder) Where(field string, operand Operand, value any) *Builder {
	switch {
	case field == "":
		b.err = errors.Join(b.err, ErrEmptyField)
		return b
	case !isIdentifier(field):
		b.err = errors.Join(b.err, fmt.Errorf("%w: %q", ErrInvalidField, field))
		return b
	case !operand.Valid():
		b.err = errors.Join(b.err, fmt.Errorf("%w: %q", ErrInvalidOperand, operand))
		return b
	case operand.Ordering() && value == nil:
		b.err = errors.Join(b.err, fmt.Errorf("%w: %s", ErrNilOrdering, field))
		return b
	}

	b.q.where = append(b.q.where, Clause{Field: field, Operand: operand, Value: value})
	return b
}

// Offset skips the first n matches.
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		b.err = errors.Join(b.err, ErrNegativeRange)
		return b
	}
	offset := uint64(n)
	b.q.offset = &offset
	return b
}

// Limit caps the number of matches.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		b.err = errors.Join(b.err, ErrNegativeRange)
		return b
	}
	limit := uint64(n)
	b.q.limit = &limit
	return b
}

// Build validates the accumulated state and returns the query.
func (b *Builder) Build() (Query, error) {
	err := b.err
	if b.q.action == ActionUnset {
		err = errors.Join(err, ErrNoAction)
	}
	if b.q.from == "" {
		err = errors.Join(err, ErrNoFrom)
	}
	if err != nil {
		return Query{}, err
	}

	q := b.q
	q.where = make([]Clause, len(b.q.where))
	copy(q.where, b.q.where)

	return q, nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
