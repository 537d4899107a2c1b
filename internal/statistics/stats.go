package statistics

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Interval is a two-sided percentile interval.
type Interval struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Width returns High - Low.
func (iv Interval) Width() float64 {
	return iv.High - iv.Low
}

// Contains reports whether v lies in [Low, High].
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Low && v <= iv.High
}

// IsSignificant returns true if the interval does not contain zero, i.e. the
// quantity differs from zero at the interval's confidence level.
func IsSignificant(iv Interval) bool {
	return !iv.Contains(0)
}

// MeanStdev returns the arithmetic mean and the sample standard deviation
// (n-1 denominator) of values. At least two values are required.
//
// The mean gets one correction pass over the deviations from the first
// estimate, so n copies of the same value average to exactly that value and
// have a standard deviation of exactly zero.
func MeanStdev(values []float64) (mean, stdev float64, err error) {
	n := float64(len(values))
	if len(values) < 2 {
		return 0, 0, fmt.Errorf("%w: standard deviation needs 2 values, got %d", ErrTooFewReplicates, len(values))
	}

	mean = stat.Mean(values, nil)
	dev := slices.Clone(values)
	floats.AddConst(-mean, dev)
	mean += floats.Sum(dev) / n

	copy(dev, values)
	floats.AddConst(-mean, dev)
	return mean, math.Sqrt(floats.Dot(dev, dev) / (n - 1)), nil
}

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between the closest ranks of the sorted values. This matches
// the default "linear" method of numpy.percentile. values is not modified.
// Returns NaN for empty input.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p = math.Min(math.Max(p, 0), 100)
	idx := p / 100 * float64(n-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper || upper >= n {
		return sorted[lower]
	}

	return lerp(sorted[lower], sorted[upper], idx-float64(lower))
}

// lerp interpolates between a and b from the nearer end, which keeps it
// exact when a == b.
func lerp(a, b, t float64) float64 {
	if t >= 0.5 {
		return b - (b-a)*(1-t)
	}
	return a + (b-a)*t
}
