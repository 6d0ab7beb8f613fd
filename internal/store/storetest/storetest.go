// Package storetest holds the behaviour every note.Store backend must share.
// Backends call Run from their own tests with a factory for fresh stores.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. Run closes it when the subtest ends.
type Factory func(t *testing.T) note.Store

// Run exercises the note.Store contract against stores produced by open.
func Run(t *testing.T, open Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s note.Store)
	}{
		{"CreateThenGet", testCreateThenGet},
		{"CreateRejectsEmptyFields", testCreateRejectsEmptyFields},
		{"ListEmpty", testListEmpty},
		{"ListIsStable", testListIsStable},
		{"ListOrdersByCreation", testListOrdersByCreation},
		{"GetMissing", testGetMissing},
		{"UpdateKeepsIdentity", testUpdateKeepsIdentity},
		{"UpdateMissing", testUpdateMissing},
		{"UpdateRejectsEmptyFields", testUpdateRejectsEmptyFields},
		{"DeleteThenGet", testDeleteThenGet},
		{"DeleteTwice", testDeleteTwice},
		{"DeleteFirstOfTwo", testDeleteFirstOfTwo},
		{"ConcurrentUpdates", testConcurrentUpdates},
		{"ConcurrentDeletes", testConcurrentDeletes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

func testCreateThenGet(t *testing.T, s note.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, "Groceries", "Milk, eggs")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Groceries", got.Title)
	assert.Equal(t, "Milk, eggs", got.Content)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", created.CreatedAt, got.CreatedAt)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Groceries", all[0].Title)
	assert.Equal(t, "Milk, eggs", all[0].Content)
}

func testCreateRejectsEmptyFields(t *testing.T, s note.Store) {
	ctx := context.Background()
	_, err := s.Create(ctx, "", "x")
	assert.True(t, note.IsValidation(err), "got %v", err)
	_, err = s.Create(ctx, "x", "")
	assert.True(t, note.IsValidation(err), "got %v", err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testListEmpty(t *testing.T, s note.Store) {
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func testListIsStable(t *testing.T, s note.Store) {
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Create(ctx, title, "body")
		require.NoError(t, err)
	}

	first, err := s.List(ctx)
	require.NoError(t, err)
	second, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second))
}

func testListOrdersByCreation(t *testing.T, s note.Store) {
	ctx := context.Background()
	var want []string
	for _, title := range []string{"a", "b", "c"} {
		n, err := s.Create(ctx, title, "body")
		require.NoError(t, err)
		want = append(want, n.ID)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, ids(all))
}

func testGetMissing(t *testing.T, s note.Store) {
	_, err := s.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func testUpdateKeepsIdentity(t *testing.T, s note.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, "Groceries", "Milk, eggs")
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, "Groceries v2", "Milk, eggs, bread")
	require.NoError(t, err)
	assert.Equal(t, "Groceries v2", updated.Title)
	assert.Equal(t, "Milk, eggs, bread", updated.Content)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Groceries v2", got.Title)
	assert.Equal(t, "Milk, eggs, bread", got.Content)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func testUpdateMissing(t *testing.T, s note.Store) {
	ctx := context.Background()
	existing, err := s.Create(ctx, "keep", "me")
	require.NoError(t, err)

	_, err = s.Update(ctx, "does-not-exist", "t", "c")
	assert.ErrorIs(t, err, note.ErrNotFound)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, existing.ID, all[0].ID)
	assert.Equal(t, "keep", all[0].Title)
}

func testUpdateRejectsEmptyFields(t *testing.T, s note.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, "title", "content")
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID, "", "content")
	assert.True(t, note.IsValidation(err), "got %v", err)
	_, err = s.Update(ctx, created.ID, "title", " ")
	assert.True(t, note.IsValidation(err), "got %v", err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", got.Title)
	assert.Equal(t, "content", got.Content)
}

func testDeleteThenGet(t *testing.T, s note.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, "t", "c")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func testDeleteTwice(t *testing.T, s note.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, "t", "c")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), note.ErrNotFound)
}

func testDeleteFirstOfTwo(t *testing.T, s note.Store) {
	ctx := context.Background()
	first, err := s.Create(ctx, "first", "1")
	require.NoError(t, err)
	second, err := s.Create(ctx, "second", "2")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, first.ID))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, "second", all[0].Title)
}

func ids(notes []note.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

const concurrentWriters = 50

// Every concurrent update of one note succeeds and the stored note holds one
// writer's values in full.
func testConcurrentUpdates(t *testing.T, s note.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, "Groceries", "Milk, eggs")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, concurrentWriters)
	for i := 0; i < concurrentWriters; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, created.ID, fmt.Sprintf("t%d", i), fmt.Sprintf("c%d", i))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	var writer int
	_, err = fmt.Sscanf(got.Title, "t%d", &writer)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("c%d", writer), got.Content)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

// Exactly one of several concurrent deletes of one note succeeds; the rest
// report ErrNotFound.
func testConcurrentDeletes(t *testing.T, s note.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, "Groceries", "Milk, eggs")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, concurrentWriters)
	for i := 0; i < concurrentWriters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Delete(ctx, created.ID)
		}()
	}
	wg.Wait()
	close(errs)

	deleted := 0
	for err := range errs {
		if err == nil {
			deleted++
			continue
		}
		assert.True(t, errors.Is(err, note.ErrNotFound), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, deleted)

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)
}
