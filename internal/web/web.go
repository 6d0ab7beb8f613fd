// Package web serves the HTML frontend. Pages are rendered on the server from
// a view.Model that is fed exclusively through the REST API client, so the
// frontend can run on a different host than the API.
//
// Each browser gets its own view.Model, keyed by a session cookie, so search
// text, edit drafts and notices never leak between visitors.
package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/asmundstavdahl/notes/internal/view"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "notes_session"

	// SessionIdle is how long an unused session is kept before it is dropped.
	SessionIdle = 12 * time.Hour
)

// session is one browser's note list state. Its actions run one at a time
// in arrival order.
type session struct {
	mu       sync.Mutex
	ctrl     *view.Controller
	lastSeen time.Time
}

// Frontend serves the note list pages.
type Frontend struct {
	api    view.API
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// New returns a Frontend talking to the notes API through api.
func New(api view.API, logger *slog.Logger) *Frontend {
	return &Frontend{
		api:      api,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

type pageData struct {
	Items       []view.Item
	Empty       bool
	Placeholder string
	Search      string
	SearchOpen  bool
	Notice      string
}

// NewRouter returns the gin engine serving the frontend.
func (f *Frontend) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(parseTemplates())

	router.GET("/", f.index)
	router.POST("/notes", f.create)
	router.POST("/notes/:id/edit", f.edit)
	router.POST("/notes/:id/cancel", f.cancel)
	router.POST("/notes/:id/save", f.save)
	router.POST("/notes/:id/delete", f.remove)
	router.POST("/search/toggle", f.toggleSearch)
	router.POST("/notice/dismiss", f.dismissNotice)
	return router
}

// session returns the caller's session, starting a new one and setting the
// cookie when the request carries none or an expired one.
func (f *Frontend) session(c *gin.Context) *session {
	now := f.now()
	id, _ := c.Cookie(sessionCookie)

	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.sessions[id]; ok && now.Sub(s.lastSeen) < SessionIdle {
		s.lastSeen = now
		return s
	}

	for sid, s := range f.sessions {
		if now.Sub(s.lastSeen) >= SessionIdle {
			delete(f.sessions, sid)
		}
	}
	id = note.NewID()
	s := &session{
		ctrl:     view.NewController(f.api, view.NewModel(), f.logger),
		lastSeen: now,
	}
	f.sessions[id] = s
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return s
}

// index refetches the list and renders it. A notice left by the previous
// action is shown once; a failed refetch renders the previous list with its
// own notice.
func (f *Frontend) index(c *gin.Context) {
	s := f.session(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.ctrl.Model()
	if q, ok := c.GetQuery("q"); ok {
		m.SetSearch(q)
	}
	pending := m.Notice()
	_ = s.ctrl.Refresh(c.Request.Context())
	notice := m.Notice()
	if notice == "" {
		notice = pending
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Items:       m.Visible(),
		Empty:       m.Empty(),
		Placeholder: view.EmptyPlaceholder,
		Search:      m.Search(),
		SearchOpen:  m.SearchOpen(),
		Notice:      notice,
	})
}

func (f *Frontend) create(c *gin.Context) {
	f.act(c, func(ctrl *view.Controller) error {
		return ctrl.Create(c.Request.Context(), c.PostForm("title"), c.PostForm("content"))
	})
}

func (f *Frontend) edit(c *gin.Context) {
	f.act(c, func(ctrl *view.Controller) error { return ctrl.Model().Edit(c.Param("id")) })
}

func (f *Frontend) cancel(c *gin.Context) {
	f.act(c, func(ctrl *view.Controller) error { return ctrl.Model().Cancel(c.Param("id")) })
}

func (f *Frontend) save(c *gin.Context) {
	f.act(c, func(ctrl *view.Controller) error {
		id := c.Param("id")
		if err := ctrl.Model().SetDraft(id, c.PostForm("title"), c.PostForm("content")); err != nil {
			return err
		}
		return ctrl.Save(c.Request.Context(), id)
	})
}

func (f *Frontend) remove(c *gin.Context) {
	f.act(c, func(ctrl *view.Controller) error { return ctrl.Delete(c.Request.Context(), c.Param("id")) })
}

func (f *Frontend) toggleSearch(c *gin.Context) {
	f.act(c, func(ctrl *view.Controller) error {
		ctrl.Model().ToggleSearch()
		return nil
	})
}

func (f *Frontend) dismissNotice(c *gin.Context) {
	f.act(c, func(ctrl *view.Controller) error {
		ctrl.Model().ClearNotice()
		return nil
	})
}

// act applies one user action to the caller's session and redirects back to
// the list. Failures are already recorded as notices by the controller, so
// they only get logged.
func (f *Frontend) act(c *gin.Context, fn func(ctrl *view.Controller) error) {
	s := f.session(c)
	s.mu.Lock()
	err := fn(s.ctrl)
	s.mu.Unlock()
	if err != nil {
		f.logger.Debug("frontend action not applied", "path", c.Request.URL.Path, "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}
