package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes binds the note operations. The table is fixed once the
// router starts serving.
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	notes := router.Group("/notes")
	{
		notes.GET("", h.ListNotes)
		notes.POST("", h.CreateNote)
		notes.GET("/:id", h.GetNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
	}
}

// NewRouter returns a gin engine with recovery, request logging, metrics and
// CORS middleware in front of the note routes.
func NewRouter(h *Handler, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLogger(h.logger),
		Instrument(h.metrics),
		CORS(corsOrigins),
	)
	SetupRoutes(router, h)
	return router
}
