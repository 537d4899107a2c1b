package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fairci/fairci/internal/dataset"
	"github.com/fairci/fairci/internal/evaluation"
	"github.com/fairci/fairci/internal/persist"
	"github.com/fairci/fairci/internal/projectconfig"
	"github.com/fairci/fairci/internal/reporting"
)

// inputFlags are shared by the commands that read a predictions file.
type inputFlags struct {
	threshold float64
	labelCol  string
	scoreCol  string
	groupCol  string
	rows      string

	format      string
	output      string
	html        string
	noOverwrite bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.threshold, "threshold", evaluation.DefaultThreshold, "Decision threshold applied to scores")
	cmd.Flags().StringVar(&f.labelCol, "label-col", dataset.DefaultLabelColumn, "CSV column holding the true labels")
	cmd.Flags().StringVar(&f.scoreCol, "score-col", dataset.DefaultScoreColumn, "CSV column holding the predicted scores")
	cmd.Flags().StringVar(&f.groupCol, "group-col", dataset.DefaultGroupColumn, "CSV column holding the sensitive attribute")
	cmd.Flags().StringVar(&f.rows, "rows", "", "Only read data rows start:end of the CSV (1-based, inclusive; end optional)")
	cmd.Flags().StringVarP(&f.format, "format", "f", projectconfig.DefaultOutputFormat, "Output format: auto, table, json, yaml, markdown or flat")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Also save the report to this file (.json, .yaml or .snap)")
	cmd.Flags().StringVar(&f.html, "html", "", "Also render the report as HTML to this file")
	cmd.Flags().BoolVar(&f.noOverwrite, "no-overwrite", false, "Fail instead of replacing an existing --output file")
}

// columns overlays explicitly set column flags onto the configured ones.
func (f *inputFlags) columns(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) dataset.Columns {
	cols := cfg.Columns
	if cmd.Flags().Changed("label-col") {
		cols.Label = f.labelCol
	}
	if cmd.Flags().Changed("score-col") {
		cols.Score = f.scoreCol
	}
	if cmd.Flags().Changed("group-col") {
		cols.Group = f.groupCol
	}
	return cols
}

// formatName returns the flag value when set, else the configured format.
func (f *inputFlags) formatName(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) string {
	if cmd.Flags().Changed("format") {
		return f.format
	}
	return cfg.Output.Format
}

// loadInputs reads the selected rows of the sample and builds the configured
// evaluator. The evaluator's groups are fixed to those of the loaded sample
// so every resample reports the same metric names.
func loadInputs(path string, f *inputFlags, cmd *cobra.Command, cfg *projectconfig.ProjectConfig) (evaluation.Sample, evaluation.Evaluator, error) {
	rows, err := dataset.ParseRowRange(f.rows)
	if err != nil {
		return evaluation.Sample{}, nil, err
	}
	sample, err := dataset.LoadSampleRange(path, f.columns(cmd, cfg), rows)
	if err != nil {
		return evaluation.Sample{}, nil, err
	}

	eval, err := evaluation.New(cfg.Evaluator.Kind, cfg.Evaluator.Params)
	if err != nil {
		return evaluation.Sample{}, nil, err
	}
	if te, ok := eval.(*evaluation.ThresholdEvaluator); ok && len(te.Groups) == 0 {
		te.Groups = sample.Groups()
	}

	slog.Debug("Loaded predictions", "path", path, "rows", rows.String(), "samples", sample.Len(), "groups", len(sample.Groups()))
	return sample, eval, nil
}

// writeReport prints r and saves the requested file outputs.
func writeReport(cmd *cobra.Command, f *inputFlags, cfg *projectconfig.ProjectConfig, r *reporting.Report) error {
	format, err := resolveFormat(f.formatName(cmd, cfg), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := reporting.Write(cmd.OutOrStdout(), r, format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if f.output != "" {
		overwrite := !f.noOverwrite
		if cfg.Output.Overwrite != nil && !*cfg.Output.Overwrite {
			overwrite = false
		}
		if err := persist.Save(r, f.output, overwrite); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
	}
	if f.html != "" {
		if err := reporting.WriteHTML(r, f.html); err != nil {
			return fmt.Errorf("saving HTML report: %w", err)
		}
	}
	return nil
}
