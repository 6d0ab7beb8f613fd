package view

import (
	"context"

	"github.com/asmundstavdahl/notes/internal/note"
)

// Op names the API call an Outcome came from.
type Op int

const (
	OpLoad Op = iota
	OpCreate
	OpSave
	OpDelete
)

// action is the phrase used in failure notices.
func (o Op) action() string {
	switch o {
	case OpCreate:
		return "add note"
	case OpSave:
		return "save note"
	case OpDelete:
		return "delete note"
	default:
		return "load notes"
	}
}

// Outcome is the result of one API call. Producing it never touches a Model,
// so calls can run off the goroutine that owns the Model; Apply then folds it
// in on that goroutine.
type Outcome struct {
	Op    Op
	Notes []note.Note // OpLoad
	Note  note.Note   // OpCreate, OpSave
	ID    string      // OpSave, OpDelete
	Err   error
}

// FetchNotes lists every note.
func FetchNotes(ctx context.Context, api API) Outcome {
	notes, err := api.List(ctx)
	return Outcome{Op: OpLoad, Notes: notes, Err: err}
}

// CreateNote submits the creation form.
func CreateNote(ctx context.Context, api API, title, content string) Outcome {
	n, err := api.Create(ctx, title, content)
	return Outcome{Op: OpCreate, Note: n, ID: n.ID, Err: err}
}

// SaveNote submits drafts for id.
func SaveNote(ctx context.Context, api API, id, title, content string) Outcome {
	n, err := api.Update(ctx, id, title, content)
	return Outcome{Op: OpSave, Note: n, ID: id, Err: err}
}

// DeleteNote removes id.
func DeleteNote(ctx context.Context, api API, id string) Outcome {
	return Outcome{Op: OpDelete, ID: id, Err: api.Delete(ctx, id)}
}

// Apply folds the outcome into m and returns its error. A failure only sets
// the notice; a success patches or replaces the cache and clears any notice
// left by an earlier failure.
func (o Outcome) Apply(m *Model) error {
	if o.Err != nil {
		m.Failed(o.Op.action(), o.Err)
		return o.Err
	}
	switch o.Op {
	case OpLoad:
		m.Loaded(o.Notes)
	case OpCreate:
		m.Created(o.Note)
	case OpSave:
		m.Updated(o.Note)
	case OpDelete:
		m.Deleted(o.ID)
	}
	m.ClearNotice()
	return nil
}

// Action returns the notice phrase for the outcome's call, e.g. "save note".
func (o Outcome) Action() string { return o.Op.action() }
