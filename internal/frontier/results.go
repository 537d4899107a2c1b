// Package frontier computes and plots the post-processing frontier of a
// classifier: the performance and disparity trade-offs reachable by
// adjusting per-group decision thresholds, with bootstrap confidence bands.
package frontier

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fairci/fairci/internal/dataset"
)

// Statistic column stems written by the bootstrap flattening, as they
// appear in post-processing result tables.
const (
	StatMean = "mean"
	StatLow  = "low-percentile"
	StatHigh = "high-percentile"
)

var ErrNoResults = errors.New("no post-processing results")

// Column returns the result table column holding stat of metric for the
// given data split, e.g. "accuracy_mean_test".
func Column(metric, stat, dataType string) string {
	return metric + "_" + stat + "_" + dataType
}

// Stat is the bootstrap summary of one metric at one post-processing point.
type Stat struct {
	Mean float64
	Low  float64
	High float64
}

// Result is one row of a post-processing results table: the numeric cells of
// one threshold adjustment, keyed by column name.
type Result map[string]float64

// Stat looks up the mean and percentile columns of metric.
func (r Result) Stat(metric, dataType string) (Stat, error) {
	var s Stat
	for _, c := range []struct {
		stat string
		dst  *float64
	}{
		{StatMean, &s.Mean},
		{StatLow, &s.Low},
		{StatHigh, &s.High},
	} {
		col := Column(metric, c.stat, dataType)
		v, ok := r[col]
		if !ok {
			return Stat{}, fmt.Errorf("missing column %q", col)
		}
		*c.dst = v
	}
	return s, nil
}

// LoadResults reads a post-processing results CSV. Cells that do not parse
// as numbers (labels, identifiers) are skipped.
func LoadResults(path string) ([]Result, error) {
	rows, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoResults, path)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		r := make(Result, len(row))
		for col, raw := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				continue
			}
			r[col] = v
		}
		results = append(results, r)
	}

	slog.Debug("Loaded post-processing results", "path", path, "rows", len(results))
	return results, nil
}

// points extracts one (performance, disparity) point per result using pick
// to choose which statistic of each metric to read.
func points(results []Result, perfMetric, dispMetric, dataType string, pick func(perf, disp Stat) Point) ([]Point, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	pts := make([]Point, 0, len(results))
	for i, r := range results {
		perf, err := r.Stat(perfMetric, dataType)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		disp, err := r.Stat(dispMetric, dataType)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		pts = append(pts, pick(perf, disp))
	}
	return pts, nil
}

func meanPoint(perf, disp Stat) Point  { return Point{Perf: perf.Mean, Disp: disp.Mean} }
func innerPoint(perf, disp Stat) Point { return Point{Perf: perf.Low, Disp: disp.High} }
func outerPoint(perf, disp Stat) Point { return Point{Perf: perf.High, Disp: disp.Low} }
