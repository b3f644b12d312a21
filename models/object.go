// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Object is the storage-neutral record every storage driver persists.
//
// Key is the primary key, Type is the logical object type that queries are
// restricted by, and Fields holds the object's properties. Field values are
// JSON-compatible: strings, booleans, numbers, nil, nested maps and slices.
type Object struct {
	Key    string         `json:"key"`
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
}

// Clone returns a deep copy of o so that callers never share field maps with
// a driver's internal state.
func (o Object) Clone() Object {
	return Object{
		Key:    o.Key,
		Type:   o.Type,
		Fields: cloneMap(o.Fields),
	}
}

// Keys returns the primary keys of objects in order.
func Keys(objects ...Object) []string {
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	return keys
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	case map[string]string:
		return maps.Clone(val)
	default:
		return v
	}
}

// toInt64 converts numeric field values coming back from any driver
// (native ints, JSON floats or json.Number) to int64.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected numeric value of type %T", v)
	}
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected string value of type %T", v)
	}
}
