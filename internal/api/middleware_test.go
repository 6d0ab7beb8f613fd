package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins []string) *gin.Engine {
	router := gin.New()
	router.Use(CORS(origins))
	router.GET("/notes", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestCORSAllowAll(t *testing.T) {
	router := corsRouter([]string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestCORSAllowList(t *testing.T) {
	router := corsRouter([]string{"https://notes.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://notes.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	router := corsRouter([]string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/notes/abc", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}
