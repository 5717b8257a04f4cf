package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/kasuganosora/rotationsolver/api/rest"
	"github.com/kasuganosora/rotationsolver/audit"
	"github.com/kasuganosora/rotationsolver/cache"
	"github.com/kasuganosora/rotationsolver/config"
	dbadapter "github.com/kasuganosora/rotationsolver/db"
	"github.com/kasuganosora/rotationsolver/game/encounter"
	"github.com/kasuganosora/rotationsolver/logging"
	"github.com/kasuganosora/rotationsolver/model"
	"github.com/kasuganosora/rotationsolver/relay"
	"github.com/kasuganosora/rotationsolver/resource"
	"github.com/kasuganosora/rotationsolver/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	encounterTask = "encounter.refresh"
	deadlineTask  = "run.deadline"
	shutdownGrace = 5 * time.Second
	relayTTL      = time.Minute
)

type runOptions struct {
	scenario string
	loop     bool
	duration time.Duration
	phase    string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the solver live over a scenario source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "data/scenarios/machinist_pull.yaml", "scenario file to replay as the live world")
	cmd.Flags().BoolVar(&opts.loop, "loop", true, "restart the scenario when it ends")
	cmd.Flags().DurationVar(&opts.duration, "for", 0, "stop after this long (0 runs until signalled)")
	cmd.Flags().StringVar(&opts.phase, "phase", "", "seed the encounter hash with this phase before the first tick")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, opts *runOptions) error {
	logger, err := logging.New(cfg.Log, cfg.Server.Debug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	tables, err := resource.Load(cfg.Resource.StatusTable, cfg.Resource.JobTable)
	if err != nil {
		return err
	}
	sc, err := resource.LoadScenario(opts.scenario, tables)
	if err != nil {
		return err
	}
	logger.Info("scenario loaded", zap.String("name", sc.Name), zap.Int("frames", len(sc.Frames)))

	// ---- Cache / PubSub ----
	store, err := cache.NewCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer store.Close()
	ps, err := cache.NewPubSub(cfg.Cache)
	if err != nil {
		return fmt.Errorf("pubsub: %w", err)
	}
	if c, ok := ps.(io.Closer); ok {
		defer c.Close()
	}

	enc := encounter.NewTracker(store, cfg.Cache.EncounterKey, logger)
	if opts.phase != "" {
		if err := encounter.Seed(ctx, store, cfg.Cache.EncounterKey, encounter.Boss{Phase: opts.phase}); err != nil {
			return err
		}
		if err := enc.Refresh(ctx); err != nil {
			return err
		}
	}
	eng, err := buildEngine(cfg, sc.Source(opts.loop), enc, tables, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// ---- Journal ----
	var journal *audit.Service
	gdb, err := dbadapter.Open(cfg.Database, logger)
	switch {
	case errors.Is(err, dbadapter.ErrDisabled):
		logger.Info("decision journal disabled")
	case err != nil:
		return fmt.Errorf("db: %w", err)
	default:
		if err := model.AutoMigrate(gdb); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
		journal = audit.New(gdb, logger)
		journal.Attach(eng.hooks)
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		logger.Info("decision journal ready", zap.String("mode", cfg.Database.Mode))
	}

	// ---- Relay ----
	rel := relay.New(relay.Config{
		Channel:   cfg.Cache.DecisionChannel,
		LatestKey: cfg.Cache.DecisionChannel + ":latest",
		RecentKey: cfg.Cache.DecisionChannel + ":recent",
		TTL:       relayTTL,
	}, ps, store, logger)
	rel.Attach(eng.hooks)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	warn := rate.Sometimes{First: 1, Interval: 30 * time.Second}
	sched.AddTicker(encounterTask, cfg.Tick.EncounterPoll, func(time.Time) {
		if err := enc.Refresh(ctx); err != nil {
			warn.Do(func() { logger.Warn("encounter refresh failed", zap.Error(err)) })
		}
	})
	if opts.duration > 0 {
		sched.AddDelay(deadlineTask, opts.duration, func(time.Time) { cancel() })
	}
	eng.solver.Run(ctx, sched, cfg.Tick.Interval)

	// ---- Debug API ----
	var srv *http.Server
	if cfg.Server.DebugAddr != "" {
		if !cfg.Server.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		if cfg.Server.AdminKey == "" {
			logger.Warn("server.admin_key is not set; debug endpoints are disabled")
		}
		deps := apirest.DebugDeps{
			Reports: eng.solver,
			History: eng.solver.Tracker(),
			Sched:   sched,
			Relay:   rel,
			Guards:  eng.guards,
			Logger:  logger,
		}
		if journal != nil {
			deps.Journal = journal
		}
		router := apirest.NewRouter(ctx, apirest.RouterConfig{
			AdminKey: cfg.Server.AdminKey,
			Allow:    cfg.Server.DebugAllow,
			RPS:      cfg.Server.DebugRPS,
			Burst:    cfg.Server.DebugBurst,
		}, apirest.NewDebugHandler(deps), logger)
		srv = &http.Server{Addr: cfg.Server.DebugAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("debug api listening", zap.String("addr", cfg.Server.DebugAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("debug api stopped", zap.Error(err))
				cancel()
			}
		}()
	}

	logger.Info("solver running", zap.Duration("interval", cfg.Tick.Interval))
	<-ctx.Done()
	logger.Info("shutting down", zap.Uint64("ticks", eng.solver.Ticks()))

	sched.Stop()
	if srv != nil {
		sctx, scancel := context.WithTimeout(context.Background(), shutdownGrace)
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("debug api shutdown", zap.Error(err))
		}
		scancel()
	}
	rel.Detach(eng.hooks)
	rel.Stop()
	if journal != nil {
		journal.Detach(eng.hooks)
		journal.Stop(context.Background())
	}
	return nil
}
