package frontier

import (
	"cmp"
	"slices"
)

// Point is one (performance, disparity) trade-off.
type Point struct {
	Perf float64
	Disp float64
}

// Envelope returns the Pareto-optimal subset of pts, maximizing performance
// and minimizing disparity, sorted by performance ascending. The constant
// classifier at (constantPerf, 0) is always reachable, so points that do not
// beat its performance are dropped.
func Envelope(pts []Point, constantPerf float64) []Point {
	all := make([]Point, 0, len(pts)+1)
	all = append(all, Point{Perf: constantPerf, Disp: 0})
	all = append(all, pts...)

	// Lowest disparity first; among equal disparity, best performance first.
	slices.SortStableFunc(all, func(a, b Point) int {
		if c := cmp.Compare(a.Disp, b.Disp); c != 0 {
			return c
		}
		return cmp.Compare(b.Perf, a.Perf)
	})

	env := make([]Point, 0, len(all))
	for _, p := range all {
		if p.Disp < 0 {
			continue
		}
		if len(env) == 0 || p.Perf > env[len(env)-1].Perf {
			env = append(env, p)
		}
	}
	return env
}

// disparityAt evaluates env as a step function: the lowest disparity of a
// point reaching at least perf. ok is false when no point reaches perf.
func disparityAt(env []Point, perf float64) (disp float64, ok bool) {
	i, _ := slices.BinarySearchFunc(env, perf, func(p Point, target float64) int {
		return cmp.Compare(p.Perf, target)
	})
	if i == len(env) {
		return 0, false
	}
	return env[i].Disp, true
}

// Bands holds the confidence band around a frontier, sampled on common
// performance ticks.
type Bands struct {
	// X holds the performance ticks in ascending order.
	X []float64
	// Inner is the pessimistic frontier built from low performance and high
	// disparity percentiles.
	Inner []float64
	// Outer is the optimistic frontier built from high performance and low
	// disparity percentiles.
	Outer []float64
}

// MaxDisparity is the disparity assigned to performance levels the
// pessimistic frontier cannot reach.
const MaxDisparity = 1.0

// ConfidenceBands builds the inner and outer frontiers of results and samples
// both on the union of their performance values, up to the furthest point of
// the outer frontier.
func ConfidenceBands(results []Result, perfMetric, dispMetric, dataType string, constantPerf float64) (Bands, error) {
	innerPts, err := points(results, perfMetric, dispMetric, dataType, innerPoint)
	if err != nil {
		return Bands{}, err
	}
	outerPts, err := points(results, perfMetric, dispMetric, dataType, outerPoint)
	if err != nil {
		return Bands{}, err
	}

	inner := Envelope(innerPts, constantPerf)
	outer := Envelope(outerPts, constantPerf)
	maxPerf := outer[len(outer)-1].Perf

	ticks := make([]float64, 0, len(inner)+len(outer))
	for _, env := range [][]Point{inner, outer} {
		for _, p := range env {
			if p.Perf <= maxPerf {
				ticks = append(ticks, p.Perf)
			}
		}
	}
	slices.Sort(ticks)
	ticks = slices.Compact(ticks)

	b := Bands{
		X:     ticks,
		Inner: make([]float64, len(ticks)),
		Outer: make([]float64, len(ticks)),
	}
	for i, x := range ticks {
		if d, ok := disparityAt(inner, x); ok {
			b.Inner[i] = d
		} else {
			b.Inner[i] = MaxDisparity
		}
		// x never exceeds the outer frontier's reach.
		b.Outer[i], _ = disparityAt(outer, x)
	}
	return b, nil
}

// Frontier returns the envelope of the mean (performance, disparity) points
// of results.
func Frontier(results []Result, perfMetric, dispMetric, dataType string, constantPerf float64) ([]Point, error) {
	pts, err := points(results, perfMetric, dispMetric, dataType, meanPoint)
	if err != nil {
		return nil, err
	}
	return Envelope(pts, constantPerf), nil
}
