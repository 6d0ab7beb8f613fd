// Package sqlite stores notes in a SQLite database through mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/asmundstavdahl/notes/internal/note"
	_ "github.com/mattn/go-sqlite3"
)

// Timestamps are stored as fixed-width UTC text so ORDER BY created_at is
// chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `CREATE TABLE IF NOT EXISTS notes(
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

// Store is a note.Store over database/sql.
type Store struct {
	db    *sql.DB
	newID note.IDGenerator
	now   note.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the UUIDv7 default.
func WithIDGenerator(gen note.IDGenerator) Option { return func(s *Store) { s.newID = gen } }

// WithClock overrides the creation timestamp source.
func WithClock(clock note.Clock) Option { return func(s *Store) { s.now = clock } }

// Open opens (creating if needed) the database at path and ensures the notes
// table exists. Use ":memory:" for a private in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
		dsn = "file:" + path + "?_busy_timeout=10000&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create notes table: %w", err)
	}

	s := &Store{db: db, newID: note.NewID, now: note.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
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
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO notes(id, title, content, created_at) VALUES(?, ?, ?, ?)",
		n.ID, n.Title, n.Content, n.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return note.Note{}, fmt.Errorf("sqlite: insert note: %w", err)
	}
	return n, nil
}

func (s *Store) List(ctx context.Context) ([]note.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, content, created_at FROM notes ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: query notes: %w", err)
	}
	defer rows.Close()

	notes := []note.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate notes: %w", err)
	}
	return notes, nil
}

func (s *Store) Get(ctx context.Context, id string) (note.Note, error) {
	return getNote(ctx, s.db, id)
}

func (s *Store) Update(ctx context.Context, id, title, content string) (note.Note, error) {
	if err := (note.Input{Title: title, Content: content}).Validate(); err != nil {
		return note.Note{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return note.Note{}, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE notes SET title = ?, content = ? WHERE id = ?", title, content, id)
	if err != nil {
		return note.Note{}, fmt.Errorf("sqlite: update note %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return note.Note{}, fmt.Errorf("sqlite: update note %s: %w", id, err)
	} else if n == 0 {
		return note.Note{}, note.ErrNotFound
	}

	updated, err := getNote(ctx, tx, id)
	if err != nil {
		return note.Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return note.Note{}, fmt.Errorf("sqlite: commit: %w", err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete note %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete note %s: %w", id, err)
	}
	if n == 0 {
		return note.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getNote(ctx context.Context, q queryer, id string) (note.Note, error) {
	row := q.QueryRowContext(ctx,
		"SELECT id, title, content, created_at FROM notes WHERE id = ?", id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return note.Note{}, note.ErrNotFound
	}
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(sc scanner) (note.Note, error) {
	var n note.Note
	var createdAt string
	if err := sc.Scan(&n.ID, &n.Title, &n.Content, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return note.Note{}, err
		}
		return note.Note{}, fmt.Errorf("sqlite: scan note: %w", err)
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return note.Note{}, fmt.Errorf("sqlite: parse created_at of %s: %w", n.ID, err)
	}
	n.CreatedAt = t
	return n, nil
}
