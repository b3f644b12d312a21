// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"

	"github.com/MKhiriev/go-divide/internal/query"
)

// valueKind is the comparison class of a field or clause value. Values of
// different kinds are never equal and never ordered against each other.
type valueKind int

const (
	kindNull valueKind = iota
	kindNumber
	kindString
	kindBool
	kindOther
)

// scalar is a normalised comparable value.
type scalar struct {
	kind valueKind
	i    int64
	f    float64
	// isInt reports whether the number is held in i.
	isInt bool
	s     string
	b     bool
}

// normalize converts v to a scalar. Maps, slices and other composite values
// come back as kindOther.
func normalize(v any) scalar {
	switch t := v.(type) {
	case nil:
		return scalar{kind: kindNull}
	case string:
		return scalar{kind: kindString, s: t}
	case bool:
		return scalar{kind: kindBool, b: t}
	case int:
		return intScalar(int64(t))
	case int8:
		return intScalar(int64(t))
	case int16:
		return intScalar(int64(t))
	case int32:
		return intScalar(int64(t))
	case int64:
		return intScalar(t)
	case uint:
		return uintScalar(uint64(t))
	case uint8:
		return intScalar(int64(t))
	case uint16:
		return intScalar(int64(t))
	case uint32:
		return intScalar(int64(t))
	case uint64:
		return uintScalar(t)
	case float32:
		return floatScalar(float64(t))
	case float64:
		return floatScalar(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return intScalar(i)
		}
		if f, err := t.Float64(); err == nil {
			return floatScalar(f)
		}
		return scalar{kind: kindOther}
	default:
		return scalar{kind: kindOther}
	}
}

func intScalar(i int64) scalar {
	return scalar{kind: kindNumber, i: i, isInt: true}
}

func uintScalar(u uint64) scalar {
	if u > math.MaxInt64 {
		return floatScalar(float64(u))
	}
	return intScalar(int64(u))
}

func floatScalar(f float64) scalar {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return intScalar(int64(f))
	}
	return scalar{kind: kindNumber, f: f}
}

// clauseValue normalises a clause value and rejects composite values.
func clauseValue(c query.Clause) (scalar, error) {
	s := normalize(c.Value)
	if s.kind == kindOther {
		return s, fmt.Errorf("%w: %s has %T", ErrUnsupportedValue, c.Field, c.Value)
	}
	return s, nil
}

// native returns the value to bind as a SQL argument.
func (s scalar) native() any {
	switch s.kind {
	case kindNumber:
		if s.isInt {
			return s.i
		}
		return s.f
	case kindString:
		return s.s
	case kindBool:
		return s.b
	default:
		return nil
	}
}

// compare orders two scalars of the same kind. ok is false when the kinds
// differ or the kind has no ordering.
func compare(a, b scalar) (result int, ok bool) {
	if a.kind != b.kind {
		return 0, false
	}

	switch a.kind {
	case kindNull:
		return 0, true
	case kindString:
		return cmp.Compare(a.s, b.s), true
	case kindBool:
		return cmp.Compare(boolInt(a.b), boolInt(b.b)), true
	case kindNumber:
		if a.isInt && b.isInt {
			return cmp.Compare(a.i, b.i), true
		}
		return cmp.Compare(a.float(), b.float()), true
	default:
		return 0, false
	}
}

// key renders s for use as a map key. raw is the value s was built from.
func (s scalar) key(raw any) string {
	if s.kind == kindOther {
		return fmt.Sprintf("%d/%v", s.kind, raw)
	}
	return fmt.Sprintf("%d/%v", s.kind, s.native())
}

func (s scalar) float() float64 {
	if s.isInt {
		return float64(s.i)
	}
	return s.f
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// matches evaluates a single clause against an object's fields. A missing
// field behaves like nil.
func matches(fields map[string]any, c query.Clause, want scalar) bool {
	got := normalize(fields[c.Field])

	if want.kind == kindNull {
		switch c.Operand {
		case query.EQ:
			return got.kind == kindNull
		case query.NE:
			return got.kind != kindNull
		default:
			return false
		}
	}

	result, ok := compare(got, want)
	switch c.Operand {
	case query.EQ:
		return ok && result == 0
	case query.NE:
		return !ok || result != 0
	case query.GT:
		return ok && result > 0
	case query.GE:
		return ok && result >= 0
	case query.LT:
		return ok && result < 0
	case query.LE:
		return ok && result <= 0
	default:
		return false
	}
}
