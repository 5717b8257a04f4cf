package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kasuganosora/rotationsolver/config"
	"github.com/kasuganosora/rotationsolver/game/encounter"
	"github.com/kasuganosora/rotationsolver/game/rotation"
	"github.com/kasuganosora/rotationsolver/logging"
	"github.com/kasuganosora/rotationsolver/resource"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type replayOptions struct {
	json  bool
	phase string
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Print one decision per scenario frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			return replay(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print full tick reports as JSON lines")
	cmd.Flags().StringVar(&opts.phase, "phase", "", "encounter phase reported to the rotation")
	return cmd
}

func replay(ctx context.Context, out io.Writer, cfg *config.Config, path string, opts *replayOptions) error {
	logger := zap.NewNop()
	if cfg.Server.Debug {
		var err error
		if logger, err = logging.New(cfg.Log, true); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer logger.Sync()
	}

	tables, err := resource.Load(cfg.Resource.StatusTable, cfg.Resource.JobTable)
	if err != nil {
		return err
	}
	sc, err := resource.LoadScenario(path, tables)
	if err != nil {
		return err
	}
	phases := encounter.None
	if opts.phase != "" {
		phases = encounter.NewStatic(encounter.Boss{Phase: opts.phase})
	}
	eng, err := buildEngine(cfg, sc.Source(false), phases, tables, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, frame := range sc.Frames {
		d := eng.solver.Tick(ctx, frame.Taken)
		if opts.json {
			if err := enc.Encode(eng.solver.Latest()); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(out, formatDecision(frame.Tick, d)); err != nil {
			return err
		}
	}
	return nil
}

func formatDecision(tick uint64, d rotation.Decision) string {
	if d.NoAction() {
		return fmt.Sprintf("%5d  %-14s -  %s", tick, d.Layer, d.Reason)
	}
	verb := "use"
	if d.Held {
		verb = "hold"
	}
	line := fmt.Sprintf("%5d  %-14s %s %s -> %d", tick, d.Layer, verb, d.Use.Name, d.Use.Target)
	if d.Reason != "" {
		line += "  (" + d.Reason + ")"
	}
	return line
}
