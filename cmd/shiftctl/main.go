// Command shiftctl runs the shift-metrics jobs from a terminal: pushing exports
// from a local folder, reprocessing a stored import and seeding shift types.
package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
	"os/signal"
	"shift-metrics/internal/config"
	"shift-metrics/internal/logging"
	"syscall"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// env is what every subcommand gets once the config is read.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

func (o *rootOptions) load() (*env, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/local.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	log := logging.Discard()
	if o.verbose {
		log = logging.Setup(cfg.Env, cfg.ErrorLog)
	}
	return &env{cfg: cfg, log: log}, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "shiftctl",
		Short:         "Shift metrics import tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: $CONFIG_PATH or ./config/local.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stdout")

	cmd.AddCommand(
		newUploadCmd(opts),
		newIngestCmd(opts),
		newShiftTypesCmd(opts),
	)

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
