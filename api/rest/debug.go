package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/rotationsolver/cache"
	"github.com/kasuganosora/rotationsolver/game/history"
	"github.com/kasuganosora/rotationsolver/game/rules"
	"github.com/kasuganosora/rotationsolver/game/solver"
	"github.com/kasuganosora/rotationsolver/model"
	"github.com/kasuganosora/rotationsolver/relay"
	"github.com/kasuganosora/rotationsolver/scheduler"
	"go.uber.org/zap"
)

// ReportSource exposes the solver's latest tick.
type ReportSource interface {
	Latest() *solver.Report
}

// HistorySource exposes the rolling HP history.
type HistorySource interface {
	Snapshot() []history.Sample
}

// TickerLister lists the scheduler's tickers.
type TickerLister interface {
	ListTickers() []scheduler.TickerInfo
}

// Journal reads back persisted decisions.
type Journal interface {
	Recent(ctx context.Context, limit int) ([]model.DecisionLog, error)
}

// RelayStore reads back what the relay left in the cache.
type RelayStore interface {
	Stored(ctx context.Context) (*solver.Report, error)
}

// DebugHandler serves read-only views of the running solver.
// Routes should be protected by AdminAuth middleware.
type DebugHandler struct {
	reports ReportSource
	history HistorySource
	sched   TickerLister
	journal Journal
	relay   RelayStore
	guards  *rules.Guards
	now     func() time.Time
	logger  *zap.Logger
}

// DebugDeps are the views a DebugHandler reads. Journal, Relay and Guards
// may be nil.
type DebugDeps struct {
	Reports ReportSource
	History HistorySource
	Sched   TickerLister
	Journal Journal
	Relay   RelayStore
	Guards  *rules.Guards
	Logger  *zap.Logger
}

// NewDebugHandler creates a DebugHandler.
func NewDebugHandler(d DebugDeps) *DebugHandler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &DebugHandler{
		reports: d.Reports,
		history: d.History,
		sched:   d.Sched,
		journal: d.Journal,
		relay:   d.Relay,
		guards:  d.Guards,
		now:     time.Now,
		logger:  d.Logger,
	}
}

// Report returns the latest tick report.
// GET /api/debug/report
func (h *DebugHandler) Report(c *gin.Context) {
	r := h.reports.Latest()
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tick yet"})
		return
	}
	c.JSON(http.StatusOK, r)
}

type ttkView struct {
	ID      uint64  `json:"id"`
	Seconds float64 `json:"seconds"`
}

// History returns the HP samples and a time-to-kill estimate per hostile.
// GET /api/debug/history
func (h *DebugHandler) History(c *gin.Context) {
	samples := h.history.Snapshot()
	est := history.Estimates(samples, h.now())
	ttk := make([]ttkView, 0, len(est))
	for id, d := range est {
		ttk = append(ttk, ttkView{ID: uint64(id), Seconds: d.Seconds()})
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(samples),
		"samples": samples,
		"ttk":     ttk,
	})
}

// Scheduler returns the registered tickers and their counters.
// GET /api/debug/scheduler
func (h *DebugHandler) Scheduler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.ListTickers()})
}

// Guards lists the compiled action guards.
// GET /api/debug/guards
func (h *DebugHandler) Guards(c *gin.Context) {
	list := h.guards.List()
	if list == nil {
		list = []rules.Guard{}
	}
	c.JSON(http.StatusOK, gin.H{"guards": list})
}

// Journal returns the most recent persisted decisions.
// GET /api/debug/journal?limit=20
func (h *DebugHandler) Journal(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal disabled"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	rows, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("journal query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": rows, "count": len(rows)})
}

// Relayed returns the report the relay last stored for late joiners.
// GET /api/debug/relay
func (h *DebugHandler) Relayed(c *gin.Context) {
	if h.relay == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "relay store disabled"})
		return
	}
	rep, err := h.relay.Stored(c.Request.Context())
	switch {
	case errors.Is(err, relay.ErrNoStore):
		c.JSON(http.StatusNotFound, gin.H{"error": "relay store disabled"})
	case cache.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing relayed yet"})
	case err != nil:
		h.logger.Error("relay read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache error"})
	default:
		c.JSON(http.StatusOK, rep)
	}
}
