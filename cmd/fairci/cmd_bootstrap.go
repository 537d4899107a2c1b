package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fairci/fairci/internal/cache"
	"github.com/fairci/fairci/internal/evaluation"
	"github.com/fairci/fairci/internal/projectconfig"
	"github.com/fairci/fairci/internal/reporting"
	"github.com/fairci/fairci/internal/spinner"
	"github.com/fairci/fairci/internal/statistics"
)

type bootstrapFlags struct {
	inputFlags

	k          int
	confidence float64
	seed       int64
	workers    int

	junit             string
	noCache           bool
	failOnSignificant bool
}

func newBootstrapCommand() *cobra.Command {
	f := &bootstrapFlags{}

	cmd := &cobra.Command{
		Use:   "bootstrap <predictions.csv>",
		Short: "Estimate bootstrap confidence intervals for every metric",
		Long: `Estimate bootstrap confidence intervals for performance and fairness metrics.

Reads a CSV of true labels, predicted scores and sensitive attributes,
resamples it with replacement k times, evaluates each resample at the
decision threshold, and reports the mean, standard deviation and percentile
interval of every metric.

Flags override the matching values in .fairci.yaml. Runs with the same
inputs, seed and k always produce the same numbers, regardless of --workers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrapCommandE(cmd, args, f)
		},
	}

	f.register(cmd)
	cmd.Flags().IntVarP(&f.k, "k", "k", statistics.DefaultReplicates, "Number of bootstrap replicates")
	cmd.Flags().Float64Var(&f.confidence, "confidence", statistics.DefaultConfidencePct, "Two-sided confidence level in percent")
	cmd.Flags().Int64Var(&f.seed, "seed", statistics.DefaultSeed, "Seed of the resampling random stream")
	cmd.Flags().IntVar(&f.workers, "workers", statistics.DefaultWorkers, "Replicates evaluated concurrently")
	cmd.Flags().StringVar(&f.junit, "junit", "", "Write disparity checks as JUnit XML to this file")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Ignore the result cache for this run")
	cmd.Flags().BoolVar(&f.failOnSignificant, "fail-on-significant", false, "Exit with code 1 when a disparity interval excludes zero")

	return cmd
}

// options overlays explicitly set flags onto the configured options.
func (f *bootstrapFlags) options(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) statistics.BootstrapOptions {
	opts := cfg.BootstrapOptions()
	if cmd.Flags().Changed("k") {
		opts.K = f.k
	}
	if cmd.Flags().Changed("confidence") {
		opts.ConfidencePct = f.confidence
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = f.threshold
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	return opts
}

func bootstrapCommandE(cmd *cobra.Command, args []string, f *bootstrapFlags) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	path := args[0]
	sample, eval, err := loadInputs(path, &f.inputFlags, cmd, cfg)
	if err != nil {
		return err
	}
	opts := f.options(cmd, cfg)

	point, err := eval.Evaluate(sample, opts.Threshold)
	if err != nil {
		return fmt.Errorf("evaluating full sample: %w", err)
	}

	res, err := bootstrapWithCache(cmd, f, cfg, eval, sample, opts)
	if err != nil {
		return err
	}

	report := reporting.NewBootstrapReport(path, sample.Len(), opts, point, res)
	if err := writeReport(cmd, &f.inputFlags, cfg, report); err != nil {
		return err
	}
	if f.junit != "" {
		if err := reporting.WriteJUnitXML(report, f.junit); err != nil {
			return fmt.Errorf("writing JUnit XML: %w", err)
		}
	}

	if f.failOnSignificant {
		if sig := report.SignificantDisparities(); len(sig) > 0 {
			names := make([]string, len(sig))
			for i, m := range sig {
				names[i] = m.Name
			}
			return &MetricCheckError{
				Message: fmt.Sprintf("%d disparity interval(s) exclude zero: %s", len(sig), strings.Join(names, ", ")),
			}
		}
	}
	return nil
}

// bootstrapWithCache returns cached results for identical inputs when the
// cache is enabled, otherwise runs the bootstrap and stores the results.
func bootstrapWithCache(cmd *cobra.Command, f *bootstrapFlags, cfg *projectconfig.ProjectConfig, eval evaluation.Evaluator, sample evaluation.Sample, opts statistics.BootstrapOptions) (*statistics.Results, error) {
	if f.noCache || cfg.Cache.Enabled == nil || !*cfg.Cache.Enabled {
		return runBootstrap(cmd, eval, sample, opts)
	}

	c := cache.New(cfg.CacheDir())
	evaluatorID := fmt.Sprintf("%s:%v", cfg.Evaluator.Kind, cfg.Evaluator.Params)
	key, err := cache.CacheKey(sample, evaluatorID, opts)
	if err != nil {
		return nil, fmt.Errorf("computing cache key: %w", err)
	}

	if res, ok := c.Get(key); ok {
		slog.Debug("Using cached bootstrap results", "key", key)
		return res, nil
	}

	res, err := runBootstrap(cmd, eval, sample, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Put(key, res); err != nil {
		slog.Warn("Failed to cache bootstrap results", "error", err)
	}
	return res, nil
}

// runBootstrap runs the estimator, showing replicate progress when stderr is
// a terminal.
func runBootstrap(cmd *cobra.Command, eval evaluation.Evaluator, sample evaluation.Sample, opts statistics.BootstrapOptions) (*statistics.Results, error) {
	f, ok := cmd.ErrOrStderr().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return statistics.BootstrapResults(cmd.Context(), eval, sample, opts)
	}

	sp := spinner.Start(f, fmt.Sprintf("Resampling 0/%d", opts.K))
	defer sp.Stop()

	var done atomic.Int64
	counted := evaluation.EvaluatorFunc(func(s evaluation.Sample, threshold float64) (evaluation.Metrics, error) {
		m, err := eval.Evaluate(s, threshold)
		sp.SetMessage(fmt.Sprintf("Resampling %d/%d", done.Add(1), opts.K))
		return m, err
	})
	return statistics.BootstrapResults(cmd.Context(), counted, sample, opts)
}
