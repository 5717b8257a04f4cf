package solver

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/rotationsolver/game/encounter"
	"github.com/kasuganosora/rotationsolver/game/history"
	"github.com/kasuganosora/rotationsolver/game/rotation"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/kasuganosora/rotationsolver/game/tick"
	"github.com/kasuganosora/rotationsolver/game/world"
	"github.com/kasuganosora/rotationsolver/plugin/hook"
	"github.com/kasuganosora/rotationsolver/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TaskName is the scheduler ticker that drives the solver.
const TaskName = "solver.tick"

// Deps are the collaborators of a Solver. Source, Classifier, Tracker and
// Pipeline are required.
type Deps struct {
	Source     world.Source
	Classifier *target.Classifier
	Tracker    *history.Tracker
	Pipeline   *rotation.Pipeline
	Phases     encounter.PhaseSource
	Hooks      *hook.Center
	Logger     *zap.Logger
}

// Solver runs one classification and decision per tick. Tick must be
// called from a single goroutine; Latest may be read from any goroutine.
type Solver struct {
	deps   Deps
	logger *zap.Logger
	warn   rate.Sometimes
	ticks  atomic.Uint64
	latest atomic.Pointer[Report]
}

// New creates a Solver.
func New(d Deps) *Solver {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Phases == nil {
		d.Phases = encounter.None
	}
	return &Solver{
		deps:   d,
		logger: d.Logger,
		warn:   rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
}

// Tick captures a snapshot, classifies it, samples the history, runs the
// pipeline and publishes the result. It never fails: every problem turns
// into a no-action decision.
func (s *Solver) Tick(ctx context.Context, now time.Time) rotation.Decision {
	report := &Report{
		TraceID: uuid.NewString(),
		Tick:    s.ticks.Add(1),
		At:      now,
	}

	snap, err := s.deps.Source.Snapshot()
	if err != nil || snap == nil {
		if err == nil {
			err = world.ErrNoSnapshot
		}
		s.warn.Do(func() { s.logger.Warn("snapshot unavailable", zap.Error(err)) })
		report.Error = err.Error()
		report.Decision = rotation.Decision{
			Layer:    rotation.LayerNone,
			Reason:   "snapshot unavailable",
			Rotation: s.deps.Pipeline.Rotation().Name(),
		}
		s.publish(ctx, report)
		return report.Decision
	}

	targets := s.deps.Classifier.Update(snap)
	report.Sampled = s.deps.Tracker.Sample(now, targets.Hostiles)

	f := tick.New(now, snap, targets, s.deps.Phases, s.deps.Tracker.Snapshot())
	d := s.deps.Pipeline.Decide(f)

	if !d.NoAction() {
		if _, err := s.deps.Hooks.Trigger(ctx, hook.DecisionBefore, d); errors.Is(err, hook.ErrInterrupt) {
			report.Vetoed = true
			d = rotation.Decision{Layer: d.Layer, Held: true, Reason: "vetoed by hook", Rotation: d.Rotation}
		} else if err != nil {
			s.warn.Do(func() { s.logger.Warn("decision.before handler failed", zap.Error(err)) })
		}
	}

	report.Job = snap.Job()
	report.Phase = f.Phase()
	report.InCombat = snap.InCombat
	report.Sets = sizesOf(targets.Sets)
	report.Selections = Selections{
		Target:    idOf(f.Target()),
		Death:     idOf(targets.Death),
		Dispel:    idOf(targets.Dispel),
		Provoke:   idOf(targets.Provoke),
		Interrupt: idOf(targets.Interrupt),
	}
	report.Decision = d
	s.publish(ctx, report)

	if ce := s.logger.Check(zap.DebugLevel, "tick decided"); ce != nil {
		ce.Write(
			zap.Uint64("tick", report.Tick),
			zap.Stringer("layer", d.Layer),
			zap.Bool("held", d.Held),
			zap.Any("use", d.Use),
		)
	}
	return d
}

func (s *Solver) publish(ctx context.Context, r *Report) {
	s.latest.Store(r)
	if _, err := s.deps.Hooks.Trigger(ctx, hook.DecisionCommitted, r); err != nil && !errors.Is(err, hook.ErrInterrupt) {
		s.warn.Do(func() { s.logger.Warn("decision.committed handler failed", zap.Error(err)) })
	}
}

// Latest returns the report of the most recent tick, or nil.
func (s *Solver) Latest() *Report { return s.latest.Load() }

// Ticks returns how many ticks have run.
func (s *Solver) Ticks() uint64 { return s.ticks.Load() }

// Tracker returns the rolling history.
func (s *Solver) Tracker() *history.Tracker { return s.deps.Tracker }

// Run registers the solver on sched. Ticks stop when sched stops or ctx is
// done.
func (s *Solver) Run(ctx context.Context, sched *scheduler.Scheduler, interval time.Duration) {
	sched.AddTicker(TaskName, interval, func(now time.Time) {
		if ctx.Err() != nil {
			return
		}
		s.Tick(ctx, now)
	})
}
