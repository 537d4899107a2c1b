package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairci/fairci/internal/frontier"
)

type frontierFlags struct {
	perf        string
	disp        string
	dataType    string
	model       string
	constantAcc float64
	color       string
	out         string
}

func newFrontierCommand() *cobra.Command {
	f := &frontierFlags{}

	cmd := &cobra.Command{
		Use:   "frontier <results.csv>",
		Short: "Plot a post-processing frontier with confidence bands",
		Long: `Plot the post-processing frontier of a model from a results table.

Each row of the table is one post-processing adjustment. Columns are named
{metric}_{mean|low-percentile|high-percentile}_{data-type}. The chart shows
the envelope of the mean (performance, disparity) points, starting at the
constant classifier, and a shaded band between the pessimistic and the
optimistic frontiers built from the percentile columns.

The image format follows the extension of --out (png, svg, pdf).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return frontierCommandE(cmd, args, f)
		},
	}

	cmd.Flags().StringVar(&f.perf, "perf", "", "Performance metric on the x axis (default from config)")
	cmd.Flags().StringVar(&f.disp, "disp", "", "Disparity metric on the y axis (default from config)")
	cmd.Flags().StringVar(&f.dataType, "data-type", "", "Data split suffix of the result columns (default from config)")
	cmd.Flags().StringVar(&f.model, "model", "model", "Model name shown in the legend")
	cmd.Flags().Float64Var(&f.constantAcc, "constant-acc", 0, "Performance of the constant classifier")
	cmd.Flags().StringVar(&f.color, "color", "", "Line and band color, a name or #rrggbb (default from config)")
	cmd.Flags().StringVar(&f.out, "out", "frontier.png", "Output image path")
	_ = cmd.MarkFlagRequired("constant-acc")

	return cmd
}

func frontierCommandE(cmd *cobra.Command, args []string, f *frontierFlags) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	opts := frontier.PlotOptions{
		PerfMetric:   firstNonEmpty(f.perf, cfg.Frontier.PerfMetric),
		DispMetric:   firstNonEmpty(f.disp, cfg.Frontier.DispMetric),
		DataType:     firstNonEmpty(f.dataType, cfg.Frontier.DataType),
		ModelName:    f.model,
		ConstantPerf: f.constantAcc,
		Color:        firstNonEmpty(f.color, cfg.Frontier.Color),
	}

	results, err := frontier.LoadResults(args[0])
	if err != nil {
		return err
	}

	p, err := frontier.Plot(results, opts)
	if err != nil {
		return err
	}
	if err := frontier.Save(p, f.out, cfg.Frontier.WidthIn, cfg.Frontier.HeightIn); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved frontier chart to %s\n", f.out) //nolint:errcheck
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
