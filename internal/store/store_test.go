package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory builds a fresh store enforcing rules
type storeFactory func(t *testing.T, rules Rules) Store

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, rules Rules) Store {
			return NewMemStore(rules)
		},
		"sqlite": func(t *testing.T, rules Rules) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "store.sq3"), rules)
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"pocketbase": func(t *testing.T, rules Rules) Store {
			fake := newFakePocketBase(t, rules)
			pb := NewPocketBase(fake.URL)
			pb.BatchSize = 2 // force pagination
			return pb
		},
	}
}

func TestStoreCreateThenList(t *testing.T) {
	for name, mk := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := mk(t, nil)

			recs, err := s.List(ctx, "posts")
			require.NoError(t, err)
			assert.Empty(t, recs)

			created, err := s.Create(ctx, "posts", map[string]any{"title": "A", "desc": "B"})
			require.NoError(t, err)
			require.NotEmpty(t, created.ID)
			assert.Len(t, created.ID, idLength)

			recs, err = s.List(ctx, "posts")
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, created.ID, recs[0].ID)
			assert.Equal(t, "A", recs[0].Text("title"))
			assert.Equal(t, "B", recs[0].Text("desc"))
		})
	}
}

func TestStoreListKeepsInsertionOrderAcrossPages(t *testing.T) {
	for name, mk := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := mk(t, nil)

			var ids []string
			for _, title := range []string{"one", "two", "three", "four", "five"} {
				rec, err := s.Create(ctx, "posts", map[string]any{"title": title})
				require.NoError(t, err)
				ids = append(ids, rec.ID)
			}
			// other collections stay separate
			_, err := s.Create(ctx, "comments", map[string]any{"title": "x"})
			require.NoError(t, err)

			recs, err := s.List(ctx, "posts")
			require.NoError(t, err)
			got := make([]string, 0, len(recs))
			for _, r := range recs {
				got = append(got, r.ID)
			}
			assert.Equal(t, ids, got)
		})
	}
}

func TestStoreRequiredFieldRejected(t *testing.T) {
	rules := Rules{"posts": {"title"}}
	for name, mk := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := mk(t, rules)

			_, err := s.Create(ctx, "posts", map[string]any{"title": "", "desc": "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStoreWrite)
			assert.NotErrorIs(t, err, ErrBackendUnavailable)

			var se *Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, 400, se.Status)
			assert.Equal(t, "validation_required", se.Fields["title"].Code)

			recs, err := s.List(ctx, "posts")
			require.NoError(t, err)
			assert.Empty(t, recs, "rejected create must not store anything")
		})
	}
}

func TestRulesCheck(t *testing.T) {
	rules := Rules{"posts": {"title", "published"}}
	assert.NoError(t, rules.Check("posts", map[string]any{"title": "a", "published": true}))
	assert.NoError(t, rules.Check("other", map[string]any{}))

	err := rules.Check("posts", map[string]any{"title": "a", "published": false})
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "published")
	assert.NotContains(t, se.Fields, "title")

	var nilRules Rules
	assert.NoError(t, nilRules.Check("posts", nil))
}

func TestMemStoreOffline(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(nil)
	s.SetOffline(true)

	_, err := s.List(ctx, "posts")
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = s.Create(ctx, "posts", map[string]any{"title": "a"})
	assert.ErrorIs(t, err, ErrStoreWrite)

	s.SetOffline(false)
	_, err = s.List(ctx, "posts")
	assert.NoError(t, err)
}

func TestMemStoreListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(nil)
	_, err := s.Create(ctx, "posts", map[string]any{"title": "a"})
	require.NoError(t, err)

	recs, err := s.List(ctx, "posts")
	require.NoError(t, err)
	recs[0].Fields["title"] = "changed"

	again, err := s.List(ctx, "posts")
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Text("title"))
}

func TestNewRecordID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewRecordID()
		require.Len(t, id, idLength)
		for _, c := range id {
			require.Contains(t, idAlphabet, string(c))
		}
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Kind:       ErrStoreWrite,
		Op:         "create",
		Collection: "posts",
		Status:     400,
		Message:    "Failed to create record.",
		Fields:     map[string]FieldError{"title": {Code: "validation_required", Message: "Missing required value."}},
	}
	assert.Equal(t,
		"create posts: collection store rejected write (status 400): Failed to create record.; title: Missing required value.",
		err.Error())
}
