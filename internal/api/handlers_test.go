package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/asmundstavdahl/notes/internal/observability"
	"github.com/asmundstavdahl/notes/internal/store/memory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noteEnvelope struct {
	Data note.Note `json:"data"`
}

type listEnvelope struct {
	Data []note.Note `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func newTestRouter(t *testing.T, s note.Store) (*gin.Engine, *observability.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	return NewRouter(NewHandler(s, logger, metrics), []string{"*"}), metrics
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, memory.New())
	w := do(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestListNotesEmpty(t *testing.T) {
	router, _ := newTestRouter(t, memory.New())
	w := do(t, router, http.MethodGet, "/notes", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data": []}`, w.Body.String())
}

func TestCreateNote(t *testing.T) {
	store := memory.New()
	router, _ := newTestRouter(t, store)

	w := do(t, router, http.MethodPost, "/notes", `{"title":"Groceries","content":"Milk, eggs"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[noteEnvelope](t, w).Data
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, "Milk, eggs", created.Content)
	assert.False(t, created.CreatedAt.IsZero())

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw["data"], "created_at")

	w = do(t, router, http.MethodGet, "/notes", "")
	list := decode[listEnvelope](t, w).Data
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreateNoteRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "empty title", body: `{"title":"","content":"x"}`, wantMsg: "title must not be empty"},
		{name: "empty content", body: `{"title":"x","content":""}`, wantMsg: "content must not be empty"},
		{name: "missing fields", body: `{}`, wantMsg: "title must not be empty"},
		{name: "malformed json", body: `{"title":`, wantMsg: "request body must be a JSON object with title and content"},
		{name: "wrong types", body: `{"title":1,"content":2}`, wantMsg: "request body must be a JSON object with title and content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			router, _ := newTestRouter(t, store)

			w := do(t, router, http.MethodPost, "/notes", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decode[errorEnvelope](t, w).Error)
			all, err := store.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestGetNote(t *testing.T) {
	store := memory.New()
	router, _ := newTestRouter(t, store)
	created, err := store.Create(context.Background(), "t", "c")
	require.NoError(t, err)

	w := do(t, router, http.MethodGet, "/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[noteEnvelope](t, w).Data.ID)

	w = do(t, router, http.MethodGet, "/notes/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "note not found", decode[errorEnvelope](t, w).Error)
}

func TestUpdateNote(t *testing.T) {
	store := memory.New()
	router, _ := newTestRouter(t, store)
	created, err := store.Create(context.Background(), "Groceries", "Milk, eggs")
	require.NoError(t, err)

	w := do(t, router, http.MethodPut, "/notes/"+created.ID, `{"title":"Groceries v2","content":"Milk, eggs, bread"}`)

	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[noteEnvelope](t, w).Data
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Groceries v2", updated.Title)
	assert.Equal(t, "Milk, eggs, bread", updated.Content)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestUpdateNoteErrors(t *testing.T) {
	store := memory.New()
	router, _ := newTestRouter(t, store)
	created, err := store.Create(context.Background(), "t", "c")
	require.NoError(t, err)

	w := do(t, router, http.MethodPut, "/notes/missing", `{"title":"a","content":"b"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPut, "/notes/"+created.ID, `{"title":"","content":"b"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	got, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestDeleteNote(t *testing.T) {
	store := memory.New()
	router, _ := newTestRouter(t, store)
	first, err := store.Create(context.Background(), "first", "1")
	require.NoError(t, err)
	second, err := store.Create(context.Background(), "second", "2")
	require.NoError(t, err)

	w := do(t, router, http.MethodDelete, "/notes/"+first.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, router, http.MethodDelete, "/notes/"+first.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/notes", "")
	list := decode[listEnvelope](t, w).Data
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

// failingStore returns errBroken from every operation.
type failingStore struct{ note.Store }

var errBroken = errors.New("disk on fire")

func (failingStore) List(context.Context) ([]note.Note, error) { return nil, errBroken }
func (failingStore) Get(context.Context, string) (note.Note, error) {
	return note.Note{}, errBroken
}

func TestStoreFailureIsInternalError(t *testing.T) {
	router, metrics := newTestRouter(t, failingStore{})

	w := do(t, router, http.MethodGet, "/notes", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decode[errorEnvelope](t, w).Error)
	assert.NotContains(t, w.Body.String(), errBroken.Error())

	do(t, router, http.MethodGet, "/notes/x", "")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("get")))
}

func TestInstrumentUsesRouteTemplate(t *testing.T) {
	router, metrics := newTestRouter(t, memory.New())

	do(t, router, http.MethodGet, "/notes/a", "")
	do(t, router, http.MethodGet, "/notes/b", "")
	do(t, router, http.MethodGet, "/nowhere", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "/notes/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, memory.New())
	do(t, router, http.MethodGet, "/notes", "")

	w := do(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `notes_http_requests_total{method="GET",route="/notes",status="200"} 1`)
}
