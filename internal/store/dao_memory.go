// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/models"
)

// UniqueField names a field whose non-nil values must be unique among
// objects of Type.
type UniqueField struct {
	Type  string
	Field string
}

// memoryDAO is the in-process implementation of [DAO]. All objects live in a
// single map guarded by one lock, which makes every Save atomic.
type memoryDAO struct {
	mu      sync.RWMutex
	objects map[string]models.Object
	unique  map[string][]string
	logger  *logger.Logger
}

// NewMemoryDAO constructs an empty in-memory [DAO] enforcing the given unique
// fields.
func NewMemoryDAO(log *logger.Logger, unique ...UniqueField) DAO {
	log.Debug().Msg("creating memory dao")

	u := make(map[string][]string, len(unique))
	for _, f := range unique {
		u[f.Type] = append(u[f.Type], f.Field)
	}

	return &memoryDAO{
		objects: make(map[string]models.Object),
		unique:  u,
		logger:  log,
	}
}

func (m *memoryDAO) Query(ctx context.Context, q query.Query) ([]models.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	switch q.Action() {
	case query.ActionSelect:
		m.mu.RLock()
		defer m.mu.RUnlock()

		matched, err := m.match(q)
		if err != nil {
			return nil, err
		}
		return cloneAll(matched), nil

	case query.ActionDelete:
		m.mu.Lock()
		defer m.mu.Unlock()

		matched, err := m.match(q)
		if err != nil {
			return nil, err
		}
		for _, o := range matched {
			delete(m.objects, o.Key)
		}

		logger.FromContext(ctx).Debug().
			Str("func", "memoryDAO.Query").
			Str("type", q.From()).
			Int("deleted", len(matched)).
			Msg("objects deleted by query")

		return cloneAll(matched), nil

	case query.ActionUpdate:
		return nil, ErrNotSupported

	default:
		return nil, fmt.Errorf("%w: %w", ErrPersistence, query.ErrNoAction)
	}
}

// match returns the objects selected by q in key order. Callers hold the lock.
func (m *memoryDAO) match(q query.Query) ([]models.Object, error) {
	clauses := q.Where()
	wants := make([]scalar, len(clauses))
	for i, c := range clauses {
		want, err := clauseValue(c)
		if err != nil {
			return nil, err
		}
		wants[i] = want
	}

	keys := make([]string, 0, len(m.objects))
	for key, o := range m.objects {
		if o.Type == q.From() {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	matched := make([]models.Object, 0)
	for _, key := range keys {
		o := m.objects[key]
		ok := true
		for i, c := range clauses {
			if !matches(o.Fields, c, wants[i]) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, o)
		}
	}

	if offset, ok := q.Offset(); ok {
		if offset >= uint64(len(matched)) {
			return []models.Object{}, nil
		}
		matched = matched[offset:]
	}
	if limit, ok := q.Limit(); ok && limit < uint64(len(matched)) {
		matched = matched[:limit]
	}

	return matched, nil
}

func (m *memoryDAO) Get(ctx context.Context, keys ...string) ([]models.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Object, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if o, ok := m.objects[key]; ok {
			result = append(result, o.Clone())
		}
	}

	return result, nil
}

func (m *memoryDAO) Save(ctx context.Context, objects ...models.Object) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	batch := dedupeByKey(objects)
	for _, o := range batch {
		if o.Key == "" {
			return fmt.Errorf("%w: object without key", ErrPersistence)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(batch); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "memoryDAO.Save").Msg("unique field conflict")
		return err
	}

	for _, o := range batch {
		m.objects[o.Key] = o.Clone()
	}

	return nil
}

// checkUnique verifies that storing batch keeps every registered unique field
// unique. Callers hold the write lock.
func (m *memoryDAO) checkUnique(batch []models.Object) error {
	inBatch := make(map[string]struct{}, len(batch))
	for _, o := range batch {
		inBatch[o.Key] = struct{}{}
	}

	type owner struct{ typ, field, value string }
	taken := make(map[owner]string)

	claim := func(o models.Object) error {
		for _, field := range m.unique[o.Type] {
			v := normalize(o.Fields[field])
			if v.kind == kindNull {
				continue
			}
			id := owner{typ: o.Type, field: field, value: v.key(o.Fields[field])}
			if existing, ok := taken[id]; ok && existing != o.Key {
				return fmt.Errorf("%w: %s.%s", ErrUniqueViolation, o.Type, field)
			}
			taken[id] = o.Key
		}
		return nil
	}

	for key, o := range m.objects {
		if _, replaced := inBatch[key]; replaced {
			continue
		}
		if err := claim(o); err != nil {
			return err
		}
	}
	for _, o := range batch {
		if err := claim(o); err != nil {
			return err
		}
	}

	return nil
}

func (m *memoryDAO) Delete(ctx context.Context, objects ...models.Object) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range objects {
		delete(m.objects, o.Key)
	}

	return nil
}

func (m *memoryDAO) Exists(ctx context.Context, objects ...models.Object) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range objects {
		if _, ok := m.objects[o.Key]; !ok {
			return false, nil
		}
	}

	return true, nil
}

func (m *memoryDAO) Count(ctx context.Context, objectType string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, o := range m.objects {
		if o.Type == objectType {
			n++
		}
	}

	return n, nil
}

func cloneAll(objects []models.Object) []models.Object {
	out := make([]models.Object, len(objects))
	for i, o := range objects {
		out[i] = o.Clone()
	}
	return out
}

// dedupeByKey keeps the last occurrence of every key, in first-seen order.
func dedupeByKey(objects []models.Object) []models.Object {
	index := make(map[string]int, len(objects))
	out := make([]models.Object, 0, len(objects))
	for _, o := range objects {
		if i, ok := index[o.Key]; ok {
			out[i] = o
			continue
		}
		index[o.Key] = len(out)
		out = append(out, o)
	}
	return out
}
