package view

import (
	"errors"
	"testing"
	"time"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotes() []note.Note {
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return []note.Note{
		{ID: "1", Title: "Groceries", Content: "Milk, eggs", CreatedAt: at},
		{ID: "2", Title: "Work", Content: "Quarterly report", CreatedAt: at.Add(time.Hour)},
	}
}

func visibleIDs(m *Model) []string {
	var ids []string
	for _, it := range m.Visible() {
		ids = append(ids, it.Note.ID)
	}
	return ids
}

func TestModelInitialStateIsViewing(t *testing.T) {
	m := NewModel()
	m.Loaded(sampleNotes())

	for _, it := range m.Visible() {
		assert.Equal(t, Viewing{}, it.State)
		assert.False(t, it.Editing())
	}
}

func TestModelSearch(t *testing.T) {
	m := NewModel()
	m.Loaded(sampleNotes()[:1])

	m.SetSearch("milk")
	assert.Equal(t, []string{"1"}, visibleIDs(m))
	assert.False(t, m.Empty())

	m.SetSearch("GROC")
	assert.Equal(t, []string{"1"}, visibleIDs(m))

	m.SetSearch("bread")
	assert.Empty(t, m.Visible())
	assert.True(t, m.Empty())

	m.SetSearch("")
	assert.Equal(t, []string{"1"}, visibleIDs(m))
}

func TestModelEmptyListIsEmpty(t *testing.T) {
	m := NewModel()
	assert.True(t, m.Empty())
}

func TestModelEditCancel(t *testing.T) {
	m := NewModel()
	m.Loaded(sampleNotes())

	require.NoError(t, m.Edit("1"))
	assert.Equal(t, Editing{DraftTitle: "Groceries", DraftContent: "Milk, eggs"}, m.State("1"))
	assert.Equal(t, Viewing{}, m.State("2"))

	require.NoError(t, m.SetDraft("1", "Changed", "Changed body"))
	require.NoError(t, m.Edit("1"))
	assert.Equal(t, Editing{DraftTitle: "Changed", DraftContent: "Changed body"}, m.State("1"))

	require.NoError(t, m.Cancel("1"))
	assert.Equal(t, Viewing{}, m.State("1"))
	n, ok := m.Note("1")
	require.True(t, ok)
	assert.Equal(t, "Groceries", n.Title)

	// Drafts do not survive a cancel.
	require.NoError(t, m.Edit("1"))
	assert.Equal(t, Editing{DraftTitle: "Groceries", DraftContent: "Milk, eggs"}, m.State("1"))
}

func TestModelTransitionErrors(t *testing.T) {
	m := NewModel()
	m.Loaded(sampleNotes())

	assert.ErrorIs(t, m.Edit("missing"), ErrUnknownNote)
	assert.ErrorIs(t, m.Cancel("missing"), ErrUnknownNote)
	assert.ErrorIs(t, m.SetDraft("missing", "a", "b"), ErrUnknownNote)
	assert.ErrorIs(t, m.SetDraft("1", "a", "b"), ErrNotEditing)
}

func TestModelUpdatedReturnsToViewing(t *testing.T) {
	m := NewModel()
	m.Loaded(sampleNotes())
	require.NoError(t, m.Edit("1"))

	updated := sampleNotes()[0]
	updated.Title = "Groceries v2"
	m.Updated(updated)

	assert.Equal(t, Viewing{}, m.State("1"))
	n, _ := m.Note("1")
	assert.Equal(t, "Groceries v2", n.Title)
	assert.Len(t, m.Notes(), 2)
}

func TestModelCreatedAndDeleted(t *testing.T) {
	m := NewModel()
	m.Loaded(sampleNotes())
	require.NoError(t, m.Edit("1"))

	m.Created(note.Note{ID: "3", Title: "New", Content: "Body"})
	assert.Equal(t, []string{"1", "2", "3"}, visibleIDs(m))

	m.Deleted("1")
	assert.Equal(t, []string{"2", "3"}, visibleIDs(m))
	assert.Equal(t, Viewing{}, m.State("1"))
}

func TestModelLoadedKeepsStateOfSurvivors(t *testing.T) {
	m := NewModel()
	m.Loaded(sampleNotes())
	require.NoError(t, m.Edit("1"))
	require.NoError(t, m.Edit("2"))

	m.Loaded(sampleNotes()[:1])

	assert.True(t, m.Visible()[0].Editing())
	_, tracked := m.states["2"]
	assert.False(t, tracked)
}

func TestModelNotice(t *testing.T) {
	m := NewModel()
	m.Failed("save note", errors.New("connection refused"))
	assert.Equal(t, "Could not save note: connection refused", m.Notice())
	m.ClearNotice()
	assert.Empty(t, m.Notice())
}

func TestModelToggleSearchKeepsFilter(t *testing.T) {
	m := NewModel()
	m.SetSearch("milk")
	m.ToggleSearch()
	assert.True(t, m.SearchOpen())
	m.ToggleSearch()
	assert.False(t, m.SearchOpen())
	assert.Equal(t, "milk", m.Search())
}

func TestItemDraft(t *testing.T) {
	n := sampleNotes()[0]
	assert.Equal(t, Editing{DraftTitle: "Groceries", DraftContent: "Milk, eggs"}, Item{Note: n, State: Viewing{}}.Draft())
	assert.Equal(t, Editing{DraftTitle: "x", DraftContent: "y"}, Item{Note: n, State: Editing{DraftTitle: "x", DraftContent: "y"}}.Draft())
}

func TestFormatDate(t *testing.T) {
	at := time.Date(2025, 6, 5, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "5/6/2025", FormatDate(at))
}
