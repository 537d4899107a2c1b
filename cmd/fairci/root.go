package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fairci/fairci/internal/projectconfig"
	"github.com/fairci/fairci/internal/reporting"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fairci",
		Short: "fairci - bootstrap confidence intervals for fairness metrics",
		Long: `fairci estimates the uncertainty of classification performance and
fairness metrics.

It resamples a prediction file with replacement, evaluates every resample,
and reports the mean, standard deviation and percentile interval of each
metric. It can also plot post-processing frontiers with their confidence
bands.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newBootstrapCommand())
	cmd.AddCommand(newEvaluateCommand())
	cmd.AddCommand(newFrontierCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newCacheCommand())

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}

// loadProjectConfig loads .fairci.yaml from the working directory or its
// parents.
func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		slog.Debug("Loaded project config", "path", cfg.Path)
	}
	return cfg, nil
}

// resolveFormat maps a format name to a report format. "auto" selects a
// table on terminals and JSON otherwise.
func resolveFormat(name string, w io.Writer) (reporting.Format, error) {
	if name == "" || name == projectconfig.DefaultOutputFormat {
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return reporting.FormatTable, nil
		}
		return reporting.FormatJSON, nil
	}
	return reporting.ParseFormat(name)
}
