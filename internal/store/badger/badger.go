// Package badger stores notes in an embedded BadgerDB key-value store.
//
// Each note is a JSON value under the key "note/<id>". BadgerDB transactions
// are optimistic: a write that read a key changed by an overlapping commit
// fails with badger.ErrConflict. Writes are retried until they commit, so
// concurrent updates to one note are last-write-wins.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/dgraph-io/badger/v4"
)

var keyPrefix = []byte("note/")

// Config holds configuration for the BadgerDB instance behind a Store.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Useful for testing.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives BadgerDB's internal logging. Nil disables it.
	Logger *slog.Logger
}

// Store is a note.Store over BadgerDB.
type Store struct {
	db    *badger.DB
	newID note.IDGenerator
	now   note.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the UUIDv7 default.
func WithIDGenerator(gen note.IDGenerator) Option { return func(s *Store) { s.newID = gen } }

// WithClock overrides the creation timestamp source.
func WithClock(clock note.Clock) Option { return func(s *Store) { s.now = clock } }

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens the database described by cfg.
func Open(cfg Config, opts ...Option) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger: path is required for a persistent store")
	}

	var bopts badger.Options
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("badger: create directory %s: %w", cfg.Path, err)
		}
		bopts = badger.DefaultOptions(cfg.Path)
	}
	bopts = bopts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}

	s := &Store{db: db, newID: note.NewID, now: note.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// update runs fn in a read-write transaction, retrying on conflicts until it
// commits, fails otherwise, or ctx is done.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func key(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}

func (s *Store) Create(ctx context.Context, title, content string) (note.Note, error) {
	if err := (note.Input{Title: title, Content: content}).Validate(); err != nil {
		return note.Note{}, err
	}
	n := note.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: s.now(),
	}
	err := s.update(ctx, func(txn *badger.Txn) error {
		return putNote(txn, n)
	})
	if err != nil {
		return note.Note{}, fmt.Errorf("badger: create note: %w", err)
	}
	return n, nil
}

func (s *Store) List(_ context.Context) ([]note.Note, error) {
	notes := []note.Note{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			var n note.Note
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			notes = append(notes, n)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: list notes: %w", err)
	}
	note.Sort(notes)
	return notes, nil
}

func (s *Store) Get(_ context.Context, id string) (note.Note, error) {
	var n note.Note
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		n, err = getNote(txn, id)
		return err
	})
	if errors.Is(err, note.ErrNotFound) {
		return note.Note{}, err
	}
	if err != nil {
		return note.Note{}, fmt.Errorf("badger: get note %s: %w", id, err)
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, id, title, content string) (note.Note, error) {
	if err := (note.Input{Title: title, Content: content}).Validate(); err != nil {
		return note.Note{}, err
	}
	var n note.Note
	err := s.update(ctx, func(txn *badger.Txn) error {
		var err error
		if n, err = getNote(txn, id); err != nil {
			return err
		}
		n.Title = title
		n.Content = content
		return putNote(txn, n)
	})
	if errors.Is(err, note.ErrNotFound) {
		return note.Note{}, err
	}
	if err != nil {
		return note.Note{}, fmt.Errorf("badger: update note %s: %w", id, err)
	}
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return note.ErrNotFound
			}
			return err
		}
		return txn.Delete(key(id))
	})
	if errors.Is(err, note.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("badger: delete note %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func getNote(txn *badger.Txn, id string) (note.Note, error) {
	item, err := txn.Get(key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return note.Note{}, note.ErrNotFound
	}
	if err != nil {
		return note.Note{}, err
	}
	var n note.Note
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &n)
	})
	return n, err
}

func putNote(txn *badger.Txn, n note.Note) error {
	val, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return txn.Set(key(n.ID), val)
}
