package statistics

import (
	"context"

	"github.com/fairci/fairci/internal/evaluation"
)

// Suffixes of the flattened bootstrap metric names, in output order.
const (
	SuffixMean           = "_bootstrap"
	SuffixStdev          = "_stdev_bootstrap"
	SuffixLowPercentile  = "_low-percentile_bootstrap"
	SuffixHighPercentile = "_high-percentile_bootstrap"
)

// Flat is a single metric-name to value map, shaped like the output of an
// evaluator so bootstrap estimates can be reported next to point estimates.
type Flat map[string]float64

// FlatEntry is one key/value pair of a Flat map.
type FlatEntry struct {
	Key   string
	Value float64
}

// Flatten merges the mean, stdev and percentile maps into one map keyed by
// "{metric}_bootstrap", "{metric}_stdev_bootstrap",
// "{metric}_low-percentile_bootstrap" and "{metric}_high-percentile_bootstrap".
func (r *Results) Flatten() Flat {
	out := make(Flat, 4*len(r.Mean))
	for _, m := range r.MetricNames() {
		out[m+SuffixMean] = r.Mean[m]
		out[m+SuffixStdev] = r.Stdev[m]
		out[m+SuffixLowPercentile] = r.Percentiles[m].Low
		out[m+SuffixHighPercentile] = r.Percentiles[m].High
	}
	return out
}

// Entries returns the flattened values grouped by metric, metrics sorted
// lexicographically, each group in mean, stdev, low, high order.
func (r *Results) Entries() []FlatEntry {
	names := r.MetricNames()
	out := make([]FlatEntry, 0, 4*len(names))
	for _, m := range names {
		out = append(out,
			FlatEntry{m + SuffixMean, r.Mean[m]},
			FlatEntry{m + SuffixStdev, r.Stdev[m]},
			FlatEntry{m + SuffixLowPercentile, r.Percentiles[m].Low},
			FlatEntry{m + SuffixHighPercentile, r.Percentiles[m].High},
		)
	}
	return out
}

// EvaluateBootstrap runs BootstrapResults and returns the flattened map.
func EvaluateBootstrap(ctx context.Context, eval evaluation.Evaluator, sample evaluation.Sample, opts BootstrapOptions) (Flat, error) {
	res, err := BootstrapResults(ctx, eval, sample, opts)
	if err != nil {
		return nil, err
	}
	return res.Flatten(), nil
}
