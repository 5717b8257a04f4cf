package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/kasuganosora/rotationsolver/api/rest"
	"github.com/kasuganosora/rotationsolver/audit"
	"github.com/kasuganosora/rotationsolver/cache"
	"github.com/kasuganosora/rotationsolver/config"
	"github.com/kasuganosora/rotationsolver/game/encounter"
	"github.com/kasuganosora/rotationsolver/game/history"
	"github.com/kasuganosora/rotationsolver/game/rotation"
	"github.com/kasuganosora/rotationsolver/game/rotation/machinist"
	"github.com/kasuganosora/rotationsolver/game/rules"
	"github.com/kasuganosora/rotationsolver/game/solver"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/kasuganosora/rotationsolver/plugin/hook"
	"github.com/kasuganosora/rotationsolver/relay"
	"github.com/kasuganosora/rotationsolver/resource"
	"github.com/kasuganosora/rotationsolver/scheduler"
	"github.com/kasuganosora/rotationsolver/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	adminKey      = "integration-admin-key"
	channel       = "rotation:decision"
	latestKey     = channel + ":latest"
	recentKey     = channel + ":recent"
	encounterKey  = "rotation:encounter"
	scenarioPath  = "../data/scenarios/machinist_pull.yaml"
	scenarioTicks = 120
)

// Stack wraps a solver with its journal, relay and debug API, wired the
// way run does.
type Stack struct {
	DB        *gorm.DB
	Cache     cache.Cache
	PubSub    cache.PubSub
	Scenario  *resource.Scenario
	Encounter *encounter.Tracker
	Hooks     *hook.Center
	Solver    *solver.Solver
	Journal   *audit.Service
	Relay     *relay.Relay
	Sched     *scheduler.Scheduler
	Server    *httptest.Server
	URL       string
}

// StackOption adjusts config before wiring.
type StackOption func(*config.Config)

// NewStack builds a stack over the shipped machinist scenario.
func NewStack(t *testing.T, opts ...StackOption) *Stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	for _, o := range opts {
		o(cfg)
	}
	logger := zap.NewNop()

	db := testutil.SetupTestDB(t)
	c, ps := testutil.SetupTestCache(t)

	tables := resource.Defaults()
	sc, err := resource.LoadScenario(scenarioPath, tables)
	require.NoError(t, err)

	guards, err := rules.Compile(cfg.Rotation.Guards, logger)
	require.NoError(t, err)

	enc := encounter.NewTracker(c, encounterKey, logger)
	hooks := hook.New()
	s := solver.New(solver.Deps{
		Source:     sc.Source(false),
		Classifier: target.NewClassifier(cfg.Target.Classifier(), logger),
		Tracker:    history.NewTracker(cfg.History.Interval, cfg.History.Capacity),
		Pipeline:   rotation.NewPipeline(machinist.New(cfg.Rotation.MachinistToggles(), guards, logger), logger),
		Phases:     enc,
		Hooks:      hooks,
		Logger:     logger,
	})

	journal := audit.New(db, logger)
	journal.Attach(hooks)
	rel := relay.New(relay.Config{Channel: channel, LatestKey: latestKey, RecentKey: recentKey}, ps, c, logger)
	rel.Attach(hooks)
	sched := scheduler.New(logger)

	ctx, cancel := context.WithCancel(context.Background())
	h := apirest.NewDebugHandler(apirest.DebugDeps{
		Reports: s,
		History: s.Tracker(),
		Sched:   sched,
		Journal: journal,
		Relay:   rel,
		Guards:  guards,
		Logger:  logger,
	})
	router := apirest.NewRouter(ctx, apirest.RouterConfig{AdminKey: adminKey, RPS: 1000, Burst: 2000}, h, logger)
	srv := httptest.NewServer(router)

	st := &Stack{
		DB: db, Cache: c, PubSub: ps, Scenario: sc, Encounter: enc,
		Hooks: hooks, Solver: s, Journal: journal, Relay: rel, Sched: sched,
		Server: srv, URL: srv.URL,
	}
	t.Cleanup(func() {
		srv.Close()
		sched.Stop()
		cancel()
		rel.Stop()
		journal.Stop(context.Background())
	})
	return st
}

// TickAll drives one tick per scenario frame at the frame's timestamp and
// returns the decisions.
func (s *Stack) TickAll(t *testing.T) []rotation.Decision {
	t.Helper()
	out := make([]rotation.Decision, 0, len(s.Scenario.Frames))
	for _, f := range s.Scenario.Frames {
		out = append(out, s.Solver.Tick(context.Background(), f.Taken))
	}
	return out
}

// Flush drains the journal and relay queues.
func (s *Stack) Flush() {
	s.Relay.Stop()
	s.Journal.Stop(context.Background())
}

// Get calls a debug endpoint with the admin key and decodes the JSON body
// into out when out is non-nil.
func (s *Stack) Get(t *testing.T, path string, out any) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("X-Admin-Key", adminKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
	}
	return resp.StatusCode
}

// Subscribe listens on the decision channel until the test ends.
func (s *Stack) Subscribe(t *testing.T) <-chan *cache.Message {
	t.Helper()
	ch, cancel, err := s.PubSub.Subscribe(context.Background(), channel)
	require.NoError(t, err)
	t.Cleanup(cancel)
	return ch
}

// Drain collects messages until none arrive for idle.
func Drain(ch <-chan *cache.Message, idle time.Duration) []*cache.Message {
	var out []*cache.Message
	for {
		select {
		case m, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, m)
		case <-time.After(idle):
			return out
		}
	}
}
