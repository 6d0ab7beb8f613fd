package badger_test

import (
	"context"
	"testing"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/asmundstavdahl/notes/internal/store/badger"
	"github.com/asmundstavdahl/notes/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) note.Store {
		s, err := badger.Open(badger.Config{InMemory: true})
		require.NoError(t, err)
		return s
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := badger.Open(badger.Config{})
	assert.Error(t, err)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := badger.Open(badger.Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	created, err := s.Create(ctx, "Groceries", "Milk, eggs")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := badger.Open(badger.Config{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, "Milk, eggs", all[0].Content)
}
