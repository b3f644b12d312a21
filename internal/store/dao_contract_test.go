// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/models"
)

// runDAOContract exercises behaviour every driver shares. newDAO must return
// an empty DAO enforcing credential email and owner id uniqueness.
func runDAOContract(t *testing.T, newDAO func(t *testing.T) DAO) {
	t.Run("save and get", func(t *testing.T) { testSaveAndGet(t, newDAO(t)) })
	t.Run("get order and missing keys", func(t *testing.T) { testGetOrder(t, newDAO(t)) })
	t.Run("save is idempotent", func(t *testing.T) { testSaveIdempotent(t, newDAO(t)) })
	t.Run("save replaces whole object", func(t *testing.T) { testSaveReplaces(t, newDAO(t)) })
	t.Run("query select", func(t *testing.T) { testQuerySelect(t, newDAO(t)) })
	t.Run("query range", func(t *testing.T) { testQueryRange(t, newDAO(t)) })
	t.Run("query delete", func(t *testing.T) { testQueryDelete(t, newDAO(t)) })
	t.Run("query update", func(t *testing.T) { testQueryUpdate(t, newDAO(t)) })
	t.Run("delete", func(t *testing.T) { testDelete(t, newDAO(t)) })
	t.Run("exists", func(t *testing.T) { testExists(t, newDAO(t)) })
	t.Run("count", func(t *testing.T) { testCount(t, newDAO(t)) })
	t.Run("unique violation", func(t *testing.T) { testUniqueViolation(t, newDAO(t)) })
	t.Run("unique owner id", func(t *testing.T) { testUniqueOwnerID(t, newDAO(t)) })
	t.Run("concurrent saves", func(t *testing.T) { testConcurrentSaves(t, newDAO(t)) })
}

func obj(key, typ string, fields map[string]any) models.Object {
	return models.Object{Key: key, Type: typ, Fields: fields}
}

func mustQuery(t *testing.T, b *query.Builder) query.Query {
	t.Helper()
	q, err := b.Build()
	require.NoError(t, err)
	return q
}

func numberField(t *testing.T, o models.Object, field string) int64 {
	t.Helper()
	s := normalize(o.Fields[field])
	require.Equal(t, kindNumber, s.kind, "field %s is %T", field, o.Fields[field])
	require.True(t, s.isInt)
	return s.i
}

func seed(t *testing.T, dao DAO) {
	t.Helper()
	require.NoError(t, dao.Save(context.Background(),
		obj("a", "item", map[string]any{"name": "alpha", "rank": 3, "active": true}),
		obj("b", "item", map[string]any{"name": "beta", "rank": 1, "active": false}),
		obj("c", "item", map[string]any{"name": "gamma", "rank": 2, "note": nil}),
		obj("d", "item", map[string]any{"name": "10", "rank": 10}),
		obj("x", "other", map[string]any{"name": "alpha", "rank": 3}),
	))
}

func testSaveAndGet(t *testing.T, dao DAO) {
	ctx := context.Background()
	require.NoError(t, dao.Save(ctx, obj("k1", "item", map[string]any{
		"name":   "alpha",
		"rank":   int64(7),
		"active": true,
		"nested": map[string]any{"x": "y"},
	})))

	got, err := dao.Get(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "k1", got[0].Key)
	assert.Equal(t, "item", got[0].Type)
	assert.Equal(t, "alpha", got[0].Fields["name"])
	assert.Equal(t, true, got[0].Fields["active"])
	assert.Equal(t, int64(7), numberField(t, got[0], "rank"))
	assert.Equal(t, map[string]any{"x": "y"}, got[0].Fields["nested"])

	// returned objects are copies
	got[0].Fields["name"] = "changed"
	again, err := dao.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "alpha", again[0].Fields["name"])
}

func testGetOrder(t *testing.T, dao DAO) {
	seed(t, dao)

	got, err := dao.Get(context.Background(), "c", "missing", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, models.Keys(got...))

	none, err := dao.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testSaveIdempotent(t *testing.T, dao DAO) {
	ctx := context.Background()
	o := obj("k1", "item", map[string]any{"name": "alpha"})

	require.NoError(t, dao.Save(ctx, o))
	require.NoError(t, dao.Save(ctx, o))
	require.NoError(t, dao.Save(ctx, o, o))

	n, err := dao.Count(ctx, "item")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := dao.Get(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Fields["name"])
}

func testSaveReplaces(t *testing.T, dao DAO) {
	ctx := context.Background()
	require.NoError(t, dao.Save(ctx, obj("k1", "item", map[string]any{"name": "alpha", "rank": 1})))
	require.NoError(t, dao.Save(ctx, obj("k1", "item", map[string]any{"name": "beta"})))

	got, err := dao.Get(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "beta", got[0].Fields["name"])
	assert.NotContains(t, got[0].Fields, "rank")
}

func testQuerySelect(t *testing.T, dao DAO) {
	seed(t, dao)

	tests := []struct {
		name  string
		where func(b *query.Builder) *query.Builder
		want  []string
	}{
		{"all of type", func(b *query.Builder) *query.Builder { return b }, []string{"a", "b", "c", "d"}},
		{"string equality", func(b *query.Builder) *query.Builder { return b.Where("name", query.EQ, "alpha") }, []string{"a"}},
		{"string is not a number", func(b *query.Builder) *query.Builder { return b.Where("name", query.EQ, 10) }, []string{}},
		{"number equality", func(b *query.Builder) *query.Builder { return b.Where("rank", query.EQ, 10) }, []string{"d"}},
		{"float equals int", func(b *query.Builder) *query.Builder { return b.Where("rank", query.EQ, 2.0) }, []string{"c"}},
		{"not equal", func(b *query.Builder) *query.Builder { return b.Where("name", query.NE, "alpha") }, []string{"b", "c", "d"}},
		{"greater or equal", func(b *query.Builder) *query.Builder { return b.Where("rank", query.GE, 3) }, []string{"a", "d"}},
		{"less than", func(b *query.Builder) *query.Builder { return b.Where("rank", query.LT, 3) }, []string{"b", "c"}},
		{"string ordering", func(b *query.Builder) *query.Builder { return b.Where("name", query.GT, "beta") }, []string{"c"}},
		{"bool equality", func(b *query.Builder) *query.Builder { return b.Where("active", query.EQ, true) }, []string{"a"}},
		{"nil matches missing", func(b *query.Builder) *query.Builder { return b.Where("active", query.EQ, nil) }, []string{"c", "d"}},
		{"not nil", func(b *query.Builder) *query.Builder { return b.Where("active", query.NE, nil) }, []string{"a", "b"}},
		{"missing is not equal", func(b *query.Builder) *query.Builder { return b.Where("active", query.NE, true) }, []string{"b", "c", "d"}},
		{"conjunction", func(b *query.Builder) *query.Builder {
			return b.Where("rank", query.GT, 1).Where("rank", query.LE, 3)
		}, []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustQuery(t, tt.where(query.NewBuilder().Select().From("item")))
			got, err := dao.Query(context.Background(), q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, models.Keys(got...))
		})
	}
}

func testQueryRange(t *testing.T, dao DAO) {
	seed(t, dao)

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"offset only", 1, -1, []string{"b", "c", "d"}},
		{"limit only", -1, 2, []string{"a", "b"}},
		{"offset and limit", 1, 2, []string{"b", "c"}},
		{"offset past end", 10, -1, []string{}},
		{"zero limit", -1, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder().Select().From("item")
			if tt.offset >= 0 {
				b = b.Offset(tt.offset)
			}
			if tt.limit >= 0 {
				b = b.Limit(tt.limit)
			}

			got, err := dao.Query(context.Background(), mustQuery(t, b))
			require.NoError(t, err)
			assert.Equal(t, tt.want, models.Keys(got...))
		})
	}
}

func testQueryDelete(t *testing.T, dao DAO) {
	ctx := context.Background()
	seed(t, dao)

	q := mustQuery(t, query.NewBuilder().Delete().From("item").Where("rank", query.LE, 2))
	deleted, err := dao.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, models.Keys(deleted...))
	assert.Equal(t, "beta", deleted[0].Fields["name"])

	remaining, err := dao.Query(ctx, mustQuery(t, query.NewBuilder().Select().From("item")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d"}, models.Keys(remaining...))

	again, err := dao.Query(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, again)

	n, err := dao.Count(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func testQueryUpdate(t *testing.T, dao DAO) {
	q := mustQuery(t, query.NewBuilder().Update().From("item"))
	_, err := dao.Query(context.Background(), q)
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.ErrorIs(t, err, ErrPersistence)

	_, err = dao.Query(context.Background(), query.Query{})
	assert.ErrorIs(t, err, ErrPersistence)
}

func testDelete(t *testing.T, dao DAO) {
	ctx := context.Background()
	seed(t, dao)

	require.NoError(t, dao.Delete(ctx, obj("a", "", nil), obj("missing", "", nil)))
	require.NoError(t, dao.Delete(ctx, obj("a", "", nil)))
	require.NoError(t, dao.Delete(ctx))

	got, err := dao.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, models.Keys(got...))
}

func testExists(t *testing.T, dao DAO) {
	ctx := context.Background()
	seed(t, dao)

	tests := []struct {
		name string
		keys []string
		want bool
	}{
		{"no input", nil, true},
		{"all present", []string{"a", "b", "x"}, true},
		{"duplicates", []string{"a", "a"}, true},
		{"one missing", []string{"a", "missing"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := make([]models.Object, 0, len(tt.keys))
			for _, k := range tt.keys {
				objects = append(objects, obj(k, "", nil))
			}
			got, err := dao.Exists(ctx, objects...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func testCount(t *testing.T, dao DAO) {
	ctx := context.Background()

	n, err := dao.Count(ctx, "item")
	require.NoError(t, err)
	assert.Zero(t, n)

	seed(t, dao)

	n, err = dao.Count(ctx, "item")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = dao.Count(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func testUniqueViolation(t *testing.T, dao DAO) {
	ctx := context.Background()
	email := models.FieldEmailAddress

	require.NoError(t, dao.Save(ctx, obj("c1", models.CredentialType, map[string]any{email: "a@x.com"})))

	// the same object may be saved again
	require.NoError(t, dao.Save(ctx, obj("c1", models.CredentialType, map[string]any{email: "a@x.com", "v": 2})))

	err := dao.Save(ctx,
		obj("ok", "item", map[string]any{"name": "kept out"}),
		obj("c2", models.CredentialType, map[string]any{email: "a@x.com"}),
	)
	require.ErrorIs(t, err, ErrUniqueViolation)
	require.ErrorIs(t, err, ErrPersistence)

	// all or nothing
	exists, err := dao.Exists(ctx, obj("ok", "", nil))
	require.NoError(t, err)
	assert.False(t, exists)

	// other types and other emails are unaffected
	require.NoError(t, dao.Save(ctx,
		obj("o1", "item", map[string]any{email: "a@x.com"}),
		obj("c3", models.CredentialType, map[string]any{email: "b@x.com"}),
	))
}

func testUniqueOwnerID(t *testing.T, dao DAO) {
	ctx := context.Background()
	owner, email := models.FieldOwnerID, models.FieldEmailAddress

	require.NoError(t, dao.Save(ctx, obj("c1", models.CredentialType, map[string]any{owner: int64(1), email: "a@x.com"})))

	err := dao.Save(ctx, obj("c2", models.CredentialType, map[string]any{owner: int64(1), email: "b@x.com"}))
	require.ErrorIs(t, err, ErrUniqueViolation)

	require.NoError(t, dao.Save(ctx, obj("c2", models.CredentialType, map[string]any{owner: int64(2), email: "b@x.com"})))

	n, err := dao.Count(ctx, models.CredentialType)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func testConcurrentSaves(t *testing.T, dao DAO) {
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, dao.Save(ctx, obj(fmt.Sprintf("k%02d", i), "item", map[string]any{"i": i})))
		}(i)
	}
	wg.Wait()

	n, err := dao.Count(ctx, "item")
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)
}
