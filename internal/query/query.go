// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package query defines the backend-neutral request descriptor consumed by
// storage drivers.
//
// A [Query] names an action, the object type it targets, a conjunctive list of
// [Clause] predicates and optional offset/limit. Queries are immutable and can
// only be produced by a [Builder], which guarantees that the action and the
// target type are always set. Drivers translate a Query into their own native
// operations; business code never talks to a driver-specific API.
package query

import (
	"fmt"
	"strings"
)

// Action is the kind of operation a [Query] requests.
type Action int

const (
	// ActionUnset is the zero value; a built Query never carries it.
	ActionUnset Action = iota
	// ActionSelect returns every matching object.
	ActionSelect
	// ActionDelete removes every matching object and returns the removed set.
	ActionDelete
	// ActionUpdate is part of the language but no driver implements it.
	ActionUpdate
)

func (a Action) String() string {
	switch a {
	case ActionSelect:
		return "SELECT"
	case ActionDelete:
		return "DELETE"
	case ActionUpdate:
		return "UPDATE"
	default:
		return "UNSET"
	}
}

// Operand is the comparison applied by a [Clause].
type Operand string

const (
	EQ Operand = "="
	NE Operand = "!="
	GT Operand = ">"
	GE Operand = ">="
	LT Operand = "<"
	LE Operand = "<="
)

// Valid reports whether o is one of the supported operands.
func (o Operand) Valid() bool {
	switch o {
	case EQ, NE, GT, GE, LT, LE:
		return true
	}
	return false
}

// Ordering reports whether o compares by order rather than by equality.
func (o Operand) Ordering() bool {
	switch o {
	case GT, GE, LT, LE:
		return true
	}
	return false
}

// Clause is a single predicate: Field Operand Value.
type Clause struct {
	Field   string
	Operand Operand
	Value   any
}

func (c Clause) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Operand, c.Value)
}

// Query is an immutable read/write intent against objects of one type.
type Query struct {
	action Action
	from   string
	where  []Clause
	offset *uint64
	limit  *uint64
}

// Action returns the requested operation.
func (q Query) Action() Action { return q.action }

// From returns the object type the query is restricted to.
func (q Query) From() string { return q.from }

// Where returns a copy of the clauses in the order they were added.
func (q Query) Where() []Clause {
	where := make([]Clause, len(q.where))
	copy(where, q.where)
	return where
}

// Len returns the number of clauses.
func (q Query) Len() int { return len(q.where) }

// Clause returns the i-th clause.
func (q Query) Clause(i int) (Clause, bool) {
	if i < 0 || i >= len(q.where) {
		return Clause{}, false
	}
	return q.where[i], true
}

// Offset returns the number of matches to skip, if set.
func (q Query) Offset() (uint64, bool) {
	if q.offset == nil {
		return 0, false
	}
	return *q.offset, true
}

// Limit returns the maximum number of matches, if set.
func (q Query) Limit() (uint64, bool) {
	if q.limit == nil {
		return 0, false
	}
	return *q.limit, true
}

func (q Query) String() string {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "%s FROM %s", q.action, q.from)

	for i, c := range q.where {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c.String())
	}

	if q.offset != nil {
		fmt.Fprintf(sb, " OFFSET %d", *q.offset)
	}
	if q.limit != nil {
		fmt.Fprintf(sb, " LIMIT %d", *q.limit)
	}

	return sb.String()
}
