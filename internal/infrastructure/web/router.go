package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"NewsChecker/internal/ports"
)

// Trigger starts a parse run unless one is already in flight.
type Trigger interface {
	Trigger(ctx context.Context) bool
	Running() bool
}

// Deps wires the use cases exposed over HTTP.
type Deps struct {
	// RunContext outlives requests; triggered runs inherit it.
	RunContext  context.Context
	Trigger     Trigger
	BrokenLinks ports.BrokenLinkReader
	Metrics     http.Handler
	Logger      *slog.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if deps.RunContext == nil {
		deps.RunContext = context.Background()
	}

	router := gin.New()
	router.Use(requestLogger(log), recovery(log))

	h := &handlers{deps: deps, logger: log}

	router.GET("/health", h.health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	v1 := router.Group("/api/v1")
	v1.POST("/parse", h.parse)
	v1.GET("/parse", h.parse)
	v1.GET("/broken-links", h.listBrokenLinks)
	v1.POST("/broken-links/:id/fixed", h.markFixed)

	return router
}
