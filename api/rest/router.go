package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/kasuganosora/rotationsolver/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RouterConfig configures the debug API surface.
type RouterConfig struct {
	AdminKey string
	Allow    []string
	RPS      float64
	Burst    int
}

// NewRouter builds the gin engine for the debug API. ctx bounds the
// background work of the middleware.
func NewRouter(ctx context.Context, cfg RouterConfig, h *DebugHandler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger), mw.IPWhitelist(cfg.Allow, logger))
	if cfg.RPS > 0 {
		r.Use(mw.RateLimit(ctx, rate.Limit(cfg.RPS), max(cfg.Burst, 1)))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	debug := r.Group("/api/debug", mw.AdminAuth(cfg.AdminKey))
	{
		debug.GET("/report", h.Report)
		debug.GET("/history", h.History)
		debug.GET("/scheduler", h.Scheduler)
		debug.GET("/guards", h.Guards)
		debug.GET("/journal", h.Journal)
		debug.GET("/relay", h.Relayed)
	}
	return r
}
