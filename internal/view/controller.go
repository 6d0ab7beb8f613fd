package view

import (
	"context"
	"log/slog"

	"github.com/asmundstavdahl/notes/internal/note"
)

// API is the subset of the REST client the Controller drives.
type API interface {
	List(ctx context.Context) ([]note.Note, error)
	Create(ctx context.Context, title, content string) (note.Note, error)
	Update(ctx context.Context, id, title, content string) (note.Note, error)
	Delete(ctx context.Context, id string) error
}

// Controller performs one API call per user action and applies the outcome
// to the Model. Errors are recorded as notices and returned; the cached list
// is never modified by a failed call.
type Controller struct {
	api    API
	model  *Model
	logger *slog.Logger
}

// NewController returns a Controller driving model through api.
func NewController(api API, model *Model, logger *slog.Logger) *Controller {
	return &Controller{api: api, model: model, logger: logger}
}

// Model returns the state the controller mutates.
func (c *Controller) Model() *Model { return c.model }

// Refresh replaces the cache with the server's list.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.apply(FetchNotes(ctx, c.api))
}

// Create submits the creation form.
func (c *Controller) Create(ctx context.Context, title, content string) error {
	return c.apply(CreateNote(ctx, c.api, title, content))
}

// Save submits the drafts of an Editing item. The item returns to Viewing
// only when the server accepts the update; otherwise the drafts are kept.
func (c *Controller) Save(ctx context.Context, id string) error {
	draft, ok := c.model.State(id).(Editing)
	if !ok {
		return ErrNotEditing
	}
	return c.apply(SaveNote(ctx, c.api, id, draft.DraftTitle, draft.DraftContent))
}

// Delete removes a note.
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.apply(DeleteNote(ctx, c.api, id))
}

func (c *Controller) apply(o Outcome) error {
	err := o.Apply(c.model)
	if err != nil {
		c.logger.Warn("note action failed", "action", o.Action(), "error", err)
	}
	return err
}
