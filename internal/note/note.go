// Package note defines the note record, the storage contract every backend
// satisfies, and the errors shared by the API and its clients.
package note

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Note defines the structure for a note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notes. Implementations own id allocation and creation
// timestamps and must be safe for concurrent use.
type Store interface {
	// Create validates title and content, assigns an id and creation time,
	// and persists the note.
	Create(ctx context.Context, title, content string) (Note, error)

	// List returns every note ordered by creation time, oldest first.
	List(ctx context.Context) ([]Note, error)

	// Get returns ErrNotFound when no note has the id.
	Get(ctx context.Context, id string) (Note, error)

	// Update replaces title and content, keeping id and creation time.
	Update(ctx context.Context, id, title, content string) (Note, error)

	// Delete removes the note permanently. Deleting twice returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

// IDGenerator produces unique note identifiers.
type IDGenerator func() string

// NewID returns a time-sortable UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Clock returns the current time. Stores take one so tests can pin timestamps.
type Clock func() time.Time

// Now is the default Clock. Times are UTC without a monotonic reading so that
// they compare equal after a storage round trip.
func Now() time.Time {
	return time.Now().UTC()
}

// Sort orders notes by creation time, falling back to id for equal times.
func Sort(notes []Note) {
	slices.SortFunc(notes, func(a, b Note) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
