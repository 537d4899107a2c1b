package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairci/fairci/internal/reporting"
)

func newEvaluateCommand() *cobra.Command {
	f := &inputFlags{}

	cmd := &cobra.Command{
		Use:   "evaluate <predictions.csv>",
		Short: "Evaluate metrics once on the full sample",
		Long: `Evaluate performance and fairness metrics once on the full sample, without
resampling. Useful as the point estimate next to bootstrap intervals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluateCommandE(cmd, args, f)
		},
	}

	f.register(cmd)

	return cmd
}

func evaluateCommandE(cmd *cobra.Command, args []string, f *inputFlags) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	path := args[0]
	sample, eval, err := loadInputs(path, f, cmd, cfg)
	if err != nil {
		return err
	}

	threshold := *cfg.Bootstrap.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = f.threshold
	}

	m, err := eval.Evaluate(sample, threshold)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", path, err)
	}

	return writeReport(cmd, f, cfg, reporting.NewEvaluationReport(path, sample.Len(), threshold, m))
}
