package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/rotationsolver/api/rest"
	"github.com/kasuganosora/rotationsolver/cache"
	"github.com/kasuganosora/rotationsolver/game/history"
	"github.com/kasuganosora/rotationsolver/game/rotation"
	"github.com/kasuganosora/rotationsolver/game/rules"
	"github.com/kasuganosora/rotationsolver/game/solver"
	"github.com/kasuganosora/rotationsolver/game/world"
	"github.com/kasuganosora/rotationsolver/model"
	"github.com/kasuganosora/rotationsolver/relay"
	"github.com/kasuganosora/rotationsolver/scheduler"
	fx "github.com/kasuganosora/rotationsolver/testutil/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const key = "s3cret"

func init() { gin.SetMode(gin.TestMode) }

type latest struct{ r *solver.Report }

func (l latest) Latest() *solver.Report { return l.r }

type tickers []scheduler.TickerInfo

func (t tickers) ListTickers() []scheduler.TickerInfo { return t }

type journal struct {
	rows []model.DecisionLog
	err  error
}

func (j journal) Recent(_ context.Context, limit int) ([]model.DecisionLog, error) {
	if j.err != nil {
		return nil, j.err
	}
	return j.rows[:min(limit, len(j.rows))], nil
}

type stored struct {
	r   *solver.Report
	err error
}

func (s stored) Stored(context.Context) (*solver.Report, error) { return s.r, s.err }

func newRouter(t *testing.T, d rest.DebugDeps) *gin.Engine {
	t.Helper()
	if d.Reports == nil {
		d.Reports = latest{}
	}
	if d.History == nil {
		d.History = history.NewTracker(0, 0)
	}
	if d.Sched == nil {
		d.Sched = tickers{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return rest.NewRouter(ctx, rest.RouterConfig{AdminKey: key}, rest.NewDebugHandler(d), zap.NewNop())
}

func debugGet(r *gin.Engine, path, k string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if k != "" {
		req.Header.Set("X-Admin-Key", k)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestDebug_RequiresKey(t *testing.T) {
	r := newRouter(t, rest.DebugDeps{})
	assert.Equal(t, http.StatusUnauthorized, debugGet(r, "/api/debug/report", "").Code)
	assert.Equal(t, http.StatusOK, debugGet(r, "/healthz", "").Code)
}

func TestDebug_ReportBeforeFirstTick(t *testing.T) {
	r := newRouter(t, rest.DebugDeps{})
	assert.Equal(t, http.StatusNotFound, debugGet(r, "/api/debug/report", key).Code)
}

func TestDebug_Report(t *testing.T) {
	rep := &solver.Report{
		TraceID:  "t",
		Tick:     12,
		Job:      "MCH",
		Decision: rotation.Decision{Layer: rotation.LayerAttack, Held: true, Reason: "burst window soon"},
	}
	r := newRouter(t, rest.DebugDeps{Reports: latest{rep}})

	w := debugGet(r, "/api/debug/report", key)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(12), body["tick"])
	decision := body["decision"].(map[string]any)
	assert.Equal(t, "attack", decision["layer"])
	assert.Equal(t, true, decision["held"])
}

func TestDebug_History(t *testing.T) {
	tr := history.NewTracker(time.Millisecond, 10)
	base := time.Now().Add(-time.Second)
	tr.Sample(base, []*world.Entity{fx.Hostile(10, fx.HP(100))})
	tr.Sample(base.Add(500*time.Millisecond), []*world.Entity{fx.Hostile(10, fx.HP(50))})

	r := newRouter(t, rest.DebugDeps{History: tr})
	w := debugGet(r, "/api/debug/history", key)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(2), body["count"])
	ttk := body["ttk"].([]any)
	require.Len(t, ttk, 1)
	assert.Equal(t, float64(10), ttk[0].(map[string]any)["id"])
}

func TestDebug_Scheduler(t *testing.T) {
	r := newRouter(t, rest.DebugDeps{Sched: tickers{{Name: solver.TaskName, Interval: 50 * time.Millisecond, Runs: 3}}})
	w := debugGet(r, "/api/debug/scheduler", key)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode(t, w)["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, solver.TaskName, tasks[0].(map[string]any)["name"])
}

func TestDebug_Guards(t *testing.T) {
	g, err := rules.Compile(map[string]string{"Drill": "HostileCount > 0"}, nil)
	require.NoError(t, err)
	r := newRouter(t, rest.DebugDeps{Guards: g})

	w := debugGet(r, "/api/debug/guards", key)
	require.Equal(t, http.StatusOK, w.Code)
	guards := decode(t, w)["guards"].([]any)
	require.Len(t, guards, 1)
	assert.Equal(t, "drill", guards[0].(map[string]any)["action"])

	w = debugGet(newRouter(t, rest.DebugDeps{}), "/api/debug/guards", key)
	assert.Equal(t, []any{}, decode(t, w)["guards"])
}

func TestDebug_Journal(t *testing.T) {
	rows := []model.DecisionLog{{Tick: 3, Layer: "general"}, {Tick: 2, Layer: "attack"}}
	r := newRouter(t, rest.DebugDeps{Journal: journal{rows: rows}})

	w := debugGet(r, "/api/debug/journal?limit=1", key)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	assert.Equal(t, http.StatusBadRequest, debugGet(r, "/api/debug/journal?limit=x", key).Code)
}

func TestDebug_JournalDisabledOrFailing(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, debugGet(newRouter(t, rest.DebugDeps{}), "/api/debug/journal", key).Code)

	r := newRouter(t, rest.DebugDeps{Journal: journal{err: errors.New("locked")}})
	assert.Equal(t, http.StatusInternalServerError, debugGet(r, "/api/debug/journal", key).Code)
}

func TestDebug_Relayed(t *testing.T) {
	tests := []struct {
		name  string
		relay rest.RelayStore
		code  int
	}{
		{"no relay", nil, http.StatusNotFound},
		{"no latest key", stored{err: relay.ErrNoStore}, http.StatusNotFound},
		{"nothing yet", stored{err: cache.ErrNotFound}, http.StatusNotFound},
		{"cache down", stored{err: errors.New("dial tcp: refused")}, http.StatusInternalServerError},
		{"stored", stored{r: &solver.Report{Tick: 41, Job: "MCH"}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := debugGet(newRouter(t, rest.DebugDeps{Relay: tt.relay}), "/api/debug/relay", key)
			require.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, float64(41), decode(t, w)["tick"])
			}
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := rest.NewDebugHandler(rest.DebugDeps{Reports: latest{}, History: history.NewTracker(0, 0), Sched: tickers{}})
	r := rest.NewRouter(ctx, rest.RouterConfig{AdminKey: key, RPS: 0.001, Burst: 1}, h, zap.NewNop())

	assert.Equal(t, http.StatusOK, debugGet(r, "/healthz", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, debugGet(r, "/healthz", "").Code)
}
