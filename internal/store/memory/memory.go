// Package memory is a map-backed note.Store for tests and throwaway servers.
package memory

import (
	"context"
	"sync"

	"github.com/asmundstavdahl/notes/internal/note"
)

// Store keeps notes in a map guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	notes map[string]note.Note
	newID note.IDGenerator
	now   note.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the UUIDv7 default.
func WithIDGenerator(gen note.IDGenerator) Option { return func(s *Store) { s.newID = gen } }

// WithClock overrides the creation timestamp source.
func WithClock(clock note.Clock) Option { return func(s *Store) { s.now = clock } }

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		notes: make(map[string]note.Note),
		newID: note.NewID,
		now:   note.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Create(_ context.Context, title, content string) (note.Note, error) {
	if err := (note.Input{Title: title, Content: content}).Validate(); err != nil {
		return note.Note{}, err
	}
	n := note.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.ID] = n
	return n, nil
}

func (s *Store) List(_ context.Context) ([]note.Note, error) {
	s.mu.RLock()
	notes := make([]note.Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, n)
	}
	s.mu.RUnlock()

	note.Sort(notes)
	return notes, nil
}

func (s *Store) Get(_ context.Context, id string) (note.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return note.Note{}, note.ErrNotFound
	}
	return n, nil
}

func (s *Store) Update(_ context.Context, id, title, content string) (note.Note, error) {
	if err := (note.Input{Title: title, Content: content}).Validate(); err != nil {
		return note.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return note.Note{}, note.ErrNotFound
	}
	n.Title = title
	n.Content = content
	s.notes[id] = n
	return n, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return note.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
