// Package view holds the note list state shared by the HTML and terminal
// frontends, independent of how either renders it.
//
// The server is the source of truth. The Model keeps a projection of the
// latest successful responses: Loaded replaces it, while Created, Updated and
// Deleted patch it from mutation responses. Failed leaves it untouched and
// only sets a notice.
package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/asmundstavdahl/notes/internal/note"
)

// EmptyPlaceholder is shown instead of the grid when no note matches.
const EmptyPlaceholder = "No notes found"

var (
	// ErrUnknownNote is returned for ids that are not in the cached list.
	ErrUnknownNote = errors.New("note is not in the list")

	// ErrNotEditing is returned when a draft action targets a Viewing item.
	ErrNotEditing = errors.New("note is not being edited")
)

// ItemState is the display state of one note: Viewing or Editing.
type ItemState interface {
	isItemState()
}

// Viewing shows the note read-only with Edit and Delete actions.
type Viewing struct{}

// Editing shows editable fields holding unsaved drafts, with Save and Cancel.
type Editing struct {
	DraftTitle   string
	DraftContent string
}

func (Viewing) isItemState() {}
func (Editing) isItemState() {}

// Item is a note together with its display state.
type Item struct {
	Note  note.Note
	State ItemState
}

// Editing reports whether the item is in the Editing state.
func (i Item) Editing() bool {
	_, ok := i.State.(Editing)
	return ok
}

// Draft returns the unsaved fields, or the note's own fields when Viewing.
func (i Item) Draft() Editing {
	if e, ok := i.State.(Editing); ok {
		return e
	}
	return Editing{DraftTitle: i.Note.Title, DraftContent: i.Note.Content}
}

// Model is the client-side state of the note list. It is not safe for
// concurrent use.
type Model struct {
	notes      []note.Note
	states     map[string]ItemState
	search     string
	searchOpen bool
	notice     string
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{states: make(map[string]ItemState)}
}

// Loaded replaces the cache with a fresh server listing. Items still present
// keep their state; states of vanished notes are dropped.
func (m *Model) Loaded(notes []note.Note) {
	m.notes = slices.Clone(notes)
	present := make(map[string]bool, len(notes))
	for _, n := range notes {
		present[n.ID] = true
	}
	for id := range m.states {
		if !present[id] {
			delete(m.states, id)
		}
	}
}

// Created appends a note returned by a successful create.
func (m *Model) Created(n note.Note) {
	m.notes = append(m.notes, n)
}

// Updated patches the cached copy with the server's record and returns the
// item to Viewing.
func (m *Model) Updated(n note.Note) {
	if i := m.index(n.ID); i >= 0 {
		m.notes[i] = n
	}
	delete(m.states, n.ID)
}

// Deleted drops a note after a successful delete.
func (m *Model) Deleted(id string) {
	if i := m.index(id); i >= 0 {
		m.notes = slices.Delete(m.notes, i, i+1)
	}
	delete(m.states, id)
}

// Failed records a notice for an action that did not apply.
func (m *Model) Failed(action string, err error) {
	m.notice = fmt.Sprintf("Could not %s: %v", action, err)
}

// Notice returns the latest failure notice, if any.
func (m *Model) Notice() string { return m.notice }

// ClearNotice dismisses the notice.
func (m *Model) ClearNotice() { m.notice = "" }

// Edit moves a Viewing item to Editing with drafts seeded from the cache.
// Editing an item that is already Editing keeps its drafts.
func (m *Model) Edit(id string) error {
	i := m.index(id)
	if i < 0 {
		return ErrUnknownNote
	}
	if _, ok := m.states[id].(Editing); ok {
		return nil
	}
	m.states[id] = Editing{DraftTitle: m.notes[i].Title, DraftContent: m.notes[i].Content}
	return nil
}

// SetDraft replaces the drafts of an Editing item.
func (m *Model) SetDraft(id, title, content string) error {
	if m.index(id) < 0 {
		return ErrUnknownNote
	}
	if _, ok := m.states[id].(Editing); !ok {
		return ErrNotEditing
	}
	m.states[id] = Editing{DraftTitle: title, DraftContent: content}
	return nil
}

// Cancel discards drafts and returns the item to Viewing, which shows the
// last values received from the server.
func (m *Model) Cancel(id string) error {
	if m.index(id) < 0 {
		return ErrUnknownNote
	}
	delete(m.states, id)
	return nil
}

// State returns the display state of id. Notes start out Viewing.
func (m *Model) State(id string) ItemState {
	if s, ok := m.states[id]; ok {
		return s
	}
	return Viewing{}
}

// Note returns the cached copy of id.
func (m *Model) Note(id string) (note.Note, bool) {
	if i := m.index(id); i >= 0 {
		return m.notes[i], true
	}
	return note.Note{}, false
}

// Notes returns a copy of the cached list in server order.
func (m *Model) Notes() []note.Note {
	return slices.Clone(m.notes)
}

// SetSearch sets the filter text.
func (m *Model) SetSearch(q string) { m.search = q }

// Search returns the filter text.
func (m *Model) Search() string { return m.search }

// ToggleSearch shows or hides the search field. Hiding it keeps the filter.
func (m *Model) ToggleSearch() { m.searchOpen = !m.searchOpen }

// SearchOpen reports whether the search field is shown.
func (m *Model) SearchOpen() bool { return m.searchOpen }

// Visible returns the notes matching the search filter with their states.
func (m *Model) Visible() []Item {
	items := make([]Item, 0, len(m.notes))
	for _, n := range m.notes {
		if Matches(n, m.search) {
			items = append(items, Item{Note: n, State: m.State(n.ID)})
		}
	}
	return items
}

// Empty reports whether the placeholder should render instead of the grid.
func (m *Model) Empty() bool {
	for _, n := range m.notes {
		if Matches(n, m.search) {
			return false
		}
	}
	return true
}

func (m *Model) index(id string) int {
	return slices.IndexFunc(m.notes, func(n note.Note) bool { return n.ID == id })
}

// Matches reports whether q occurs in the title or content, ignoring case.
// The empty query matches everything.
func Matches(n note.Note, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}

// FormatDate renders a creation time as day/month/year in local time.
func FormatDate(t time.Time) string {
	return t.Local().Format("2/1/2006")
}
