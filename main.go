package main

import (
	"fmt"
	"os"

	"github.com/kasuganosora/rotationsolver/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "rotationsolver",
		Short:         "Combat rotation solver: picks the next action every tick.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (built-in defaults when empty)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "debug logging and gin debug mode")
	root.AddCommand(newRunCmd(opts), newReplayCmd(opts))
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if o.debug {
		cfg.Server.Debug = true
	}
	return cfg, nil
}
