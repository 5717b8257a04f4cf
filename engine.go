package main

import (
	"fmt"
	"strings"

	"github.com/kasuganosora/rotationsolver/config"
	"github.com/kasuganosora/rotationsolver/game/encounter"
	"github.com/kasuganosora/rotationsolver/game/history"
	"github.com/kasuganosora/rotationsolver/game/rotation"
	"github.com/kasuganosora/rotationsolver/game/rotation/machinist"
	"github.com/kasuganosora/rotationsolver/game/rules"
	"github.com/kasuganosora/rotationsolver/game/solver"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/kasuganosora/rotationsolver/game/world"
	"github.com/kasuganosora/rotationsolver/plugin/hook"
	"github.com/kasuganosora/rotationsolver/resource"
	"go.uber.org/zap"
)

// engine is the per-process decision stack shared by run and replay.
type engine struct {
	guards *rules.Guards
	hooks  *hook.Center
	solver *solver.Solver
}

func buildEngine(cfg *config.Config, src world.Source, phases encounter.PhaseSource, tables *resource.Tables, logger *zap.Logger) (*engine, error) {
	guards, err := rules.Compile(cfg.Rotation.Guards, logger)
	if err != nil {
		return nil, err
	}
	rot, err := newRotation(cfg.Rotation, guards, logger)
	if err != nil {
		return nil, err
	}
	hooks := hook.New()
	s := solver.New(solver.Deps{
		Source:     src,
		Classifier: target.NewClassifier(classifierConfig(cfg, tables), logger),
		Tracker:    history.NewTracker(cfg.History.Interval, cfg.History.Capacity),
		Pipeline:   rotation.NewPipeline(rot, logger),
		Phases:     phases,
		Hooks:      hooks,
		Logger:     logger,
	})
	logger.Info("engine ready",
		zap.String("rotation", rot.Name()),
		zap.Int("guards", len(guards.List())),
		zap.Duration("history_interval", cfg.History.Interval))
	return &engine{guards: guards, hooks: hooks, solver: s}, nil
}

// classifierConfig fills job lists the config leaves empty from the job
// table.
func classifierConfig(cfg *config.Config, tables *resource.Tables) target.Config {
	tc := cfg.Target.Classifier()
	if tables == nil {
		return tc
	}
	if len(cfg.Target.RaiseJobs) == 0 {
		if jobs := tables.RaiseJobs(); len(jobs) > 0 {
			tc.RaiseJobs = jobs
		}
	}
	if len(cfg.Target.DispelJobs) == 0 {
		if jobs := tables.DispelJobs(); len(jobs) > 0 {
			tc.DispelJobs = jobs
		}
	}
	return tc
}

func newRotation(cfg config.RotationConfig, guards *rules.Guards, logger *zap.Logger) (rotation.Rotation, error) {
	switch strings.ToUpper(strings.TrimSpace(cfg.Job)) {
	case "MCH", "":
		return machinist.New(cfg.MachinistToggles(), guards, logger), nil
	default:
		return nil, fmt.Errorf("no rotation for job %q", cfg.Job)
	}
}
