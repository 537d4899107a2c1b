package statistics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/fairci/fairci/internal/evaluation"
)

// Defaults for BootstrapOptions.
const (
	DefaultReplicates    = 200
	DefaultConfidencePct = 95.0
	DefaultSeed          = 42
	DefaultWorkers       = 1
)

var (
	ErrEmptySample       = errors.New("sample is empty")
	ErrTooFewReplicates  = errors.New("at least 2 bootstrap replicates are required")
	ErrInvalidConfidence = errors.New("confidence must be strictly between 0 and 100 percent")
	ErrNoMetrics         = errors.New("evaluator returned no metrics")
	ErrMetricSetMismatch = errors.New("bootstrap replicates returned different metric sets")
	ErrNilEvaluator      = errors.New("evaluator is nil")
	ErrLengthMismatch    = evaluation.ErrLengthMismatch
)

// BootstrapOptions controls a bootstrap run.
type BootstrapOptions struct {
	// K is the number of bootstrap replicates.
	K int `json:"k" yaml:"k"`
	// ConfidencePct is the two-sided confidence level in percent, e.g. 95.
	ConfidencePct float64 `json:"confidence_pct" yaml:"confidence_pct"`
	// Seed seeds the single random stream all replicate indices are drawn from.
	Seed int64 `json:"seed" yaml:"seed"`
	// Threshold is the decision threshold passed to the evaluator.
	Threshold float64 `json:"threshold" yaml:"threshold"`
	// Workers bounds how many replicates are evaluated concurrently. Values
	// below 2 evaluate sequentially. Results do not depend on it.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultBootstrapOptions returns K=200, 95% confidence, seed 42 and a 0.50
// decision threshold, evaluated sequentially.
func DefaultBootstrapOptions() BootstrapOptions {
	return BootstrapOptions{
		K:             DefaultReplicates,
		ConfidencePct: DefaultConfidencePct,
		Seed:          DefaultSeed,
		Threshold:     evaluation.DefaultThreshold,
		Workers:       DefaultWorkers,
	}
}

// PercentileBounds returns the low and high percentiles of the symmetric
// two-sided interval for the configured confidence, e.g. 2.5 and 97.5 for 95.
func (o BootstrapOptions) PercentileBounds() (low, high float64) {
	low = (100 - o.ConfidencePct) / 2
	return low, 100 - low
}

func (o BootstrapOptions) validate() error {
	if o.K < 2 {
		return fmt.Errorf("%w: got k=%d", ErrTooFewReplicates, o.K)
	}
	if !(o.ConfidencePct > 0 && o.ConfidencePct < 100) {
		return fmt.Errorf("%w: got %g", ErrInvalidConfidence, o.ConfidencePct)
	}
	return nil
}

// Results holds per-metric bootstrap statistics.
type Results struct {
	Mean        map[string]float64  `json:"mean"`
	Stdev       map[string]float64  `json:"stdev"`
	Percentiles map[string]Interval `json:"percentiles"`
}

// MetricNames returns the metric names in lexicographic order.
func (r *Results) MetricNames() []string {
	names := make([]string, 0, len(r.Mean))
	for m := range r.Mean {
		names = append(names, m)
	}
	slices.Sort(names)
	return names
}

// BootstrapResults resamples the sample with replacement opts.K times,
// evaluates every resample at opts.Threshold, and aggregates each metric into
// its mean, sample standard deviation and percentile interval.
//
// All preconditions are checked before any resampling. The first evaluator
// error aborts the run and is returned; no partial results are produced.
func BootstrapResults(ctx context.Context, eval evaluation.Evaluator, sample evaluation.Sample, opts BootstrapOptions) (*Results, error) {
	if eval == nil {
		return nil, ErrNilEvaluator
	}
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	n := sample.Len()
	if n == 0 {
		return nil, ErrEmptySample
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	slog.Debug("Starting bootstrap", "k", opts.K, "n", n, "confidence_pct", opts.ConfidencePct, "seed", opts.Seed, "workers", opts.Workers)

	replicates, err := evaluateReplicates(ctx, eval, sample, newReplicateDrawer(opts.Seed, n), opts)
	if err != nil {
		return nil, err
	}

	names, err := metricSet(replicates)
	if err != nil {
		return nil, err
	}

	low, high := opts.PercentileBounds()
	res := &Results{
		Mean:        make(map[string]float64, len(names)),
		Stdev:       make(map[string]float64, len(names)),
		Percentiles: make(map[string]Interval, len(names)),
	}

	values := make([]float64, len(replicates))
	for _, m := range names {
		for i, r := range replicates {
			values[i] = r[m]
		}

		mean, stdev, err := MeanStdev(values)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", m, err)
		}
		res.Mean[m] = mean
		res.Stdev[m] = stdev
		res.Percentiles[m] = Interval{
			Low:  Percentile(values, low),
			High: Percentile(values, high),
		}
	}

	slog.Debug("Bootstrap finished", "metrics", len(names))
	return res, nil
}

// replicateDrawer hands out blocks of n indices in [0, n) from one seeded
// stream. The k-th call to next returns the block of replicate k, so callers
// must draw in replicate order.
type replicateDrawer struct {
	rng *rand.Rand
	n   int
}

func newReplicateDrawer(seed int64, n int) *replicateDrawer {
	return &replicateDrawer{rng: rand.New(rand.NewSource(seed)), n: n}
}

func (d *replicateDrawer) next() []int {
	idx := make([]int, d.n)
	for j := range idx {
		idx[j] = d.rng.Intn(d.n)
	}
	return idx
}

// evaluateReplicates draws each block just before its replicate is
// dispatched. Dispatch is sequential even with workers, which keeps the
// replicate to block mapping fixed and holds at most opts.Workers blocks in
// memory at once.
func evaluateReplicates(ctx context.Context, eval evaluation.Evaluator, sample evaluation.Sample, draws *replicateDrawer, opts BootstrapOptions) ([]evaluation.Metrics, error) {
	replicates := make([]evaluation.Metrics, opts.K)

	if opts.Workers < 2 {
		for i := range replicates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			m, err := eval.Evaluate(sample.Gather(draws.next()), opts.Threshold)
			if err != nil {
				return nil, fmt.Errorf("evaluating bootstrap replicate %d: %w", i, err)
			}
			replicates[i] = m
		}
		return replicates, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range replicates {
		if gctx.Err() != nil {
			break
		}
		idx := draws.next()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := eval.Evaluate(sample.Gather(idx), opts.Threshold)
			if err != nil {
				return fmt.Errorf("evaluating bootstrap replicate %d: %w", i, err)
			}
			replicates[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return replicates, nil
}

// metricSet returns the sorted metric names of the first replicate after
// checking that every replicate reports exactly that set.
func metricSet(replicates []evaluation.Metrics) ([]string, error) {
	names := replicates[0].Names()
	if len(names) == 0 {
		return nil, ErrNoMetrics
	}

	for i, r := range replicates[1:] {
		if len(r) != len(names) {
			return nil, fmt.Errorf("%w: replicate %d has %d metrics, replicate 0 has %d", ErrMetricSetMismatch, i+1, len(r), len(names))
		}
		for _, m := range names {
			if _, ok := r[m]; !ok {
				return nil, fmt.Errorf("%w: replicate %d is missing %q", ErrMetricSetMismatch, i+1, m)
			}
		}
	}
	return names, nil
}
