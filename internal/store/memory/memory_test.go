package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/asmundstavdahl/notes/internal/store/memory"
	"github.com/asmundstavdahl/notes/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) note.Store {
		return memory.New()
	})
}

func TestStoreOptions(t *testing.T) {
	pinned := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	seq := 0
	s := memory.New(
		memory.WithClock(func() time.Time { return pinned }),
		memory.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("note-%02d", seq)
		}),
	)

	ctx := context.Background()
	a, err := s.Create(ctx, "a", "a")
	require.NoError(t, err)
	b, err := s.Create(ctx, "b", "b")
	require.NoError(t, err)

	assert.Equal(t, "note-01", a.ID)
	assert.Equal(t, "note-02", b.ID)
	assert.Equal(t, pinned, a.CreatedAt)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "note-01", all[0].ID)
}
