// Package api exposes note.Store over JSON/HTTP.
//
// Successful responses wrap their payload as {"data": ...}; failures are
// {"error": "<message>"} with 400 for validation, 404 for unknown ids and 500
// for store failures, whose cause is logged rather than returned.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/asmundstavdahl/notes/internal/observability"
	"github.com/gin-gonic/gin"
)

// Handler serves the /notes resource.
type Handler struct {
	store   note.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHandler returns a Handler backed by store.
func NewHandler(store note.Store, logger *slog.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{store: store, logger: logger, metrics: metrics}
}

// HealthCheck reports that the process is serving requests.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(c *gin.Context) {
	notes, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	h.metrics.Notes.Set(float64(len(notes)))
	c.JSON(http.StatusOK, gin.H{"data": notes})
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	n, err := h.store.Create(c.Request.Context(), in.Title, in.Content)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	h.logger.Info("note created", "id", n.ID)
	c.JSON(http.StatusCreated, gin.H{"data": n})
}

// GetNote handles GET /notes/:id.
func (h *Handler) GetNote(c *gin.Context) {
	n, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": n})
}

// UpdateNote handles PUT /notes/:id.
func (h *Handler) UpdateNote(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	id := c.Param("id")
	n, err := h.store.Update(c.Request.Context(), id, in.Title, in.Content)
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	h.logger.Info("note updated", "id", id)
	c.JSON(http.StatusOK, gin.H{"data": n})
}

// DeleteNote handles DELETE /notes/:id.
func (h *Handler) DeleteNote(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete", err)
		return
	}
	h.logger.Info("note deleted", "id", id)
	c.Status(http.StatusNoContent)
}

// bindInput decodes and validates the request body. It writes the 400
// response itself and reports false when the body is unusable, so no store
// call happens for invalid input.
func (h *Handler) bindInput(c *gin.Context) (note.Input, bool) {
	var in note.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Debug("invalid note body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object with title and content"})
		return note.Input{}, false
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return note.Input{}, false
	}
	return in, true
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case note.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, note.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": note.ErrNotFound.Error()})
	default:
		h.logger.Error("note store failure", "op", op, "id", c.Param("id"), "error", err)
		h.metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
