package reporting

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fairci/fairci/internal/statistics"
)

// Results rebuilds the bootstrap statistics carried by r. It returns nil for
// single evaluations.
func (r *Report) Results() *statistics.Results {
	if !r.IsBootstrap() {
		return nil
	}
	res := &statistics.Results{
		Mean:        make(map[string]float64, len(r.Metrics)),
		Stdev:       make(map[string]float64, len(r.Metrics)),
		Percentiles: make(map[string]statistics.Interval, len(r.Metrics)),
	}
	for _, m := range r.Metrics {
		if m.Bootstrap == nil {
			continue
		}
		res.Mean[m.Name] = m.Bootstrap.Mean
		res.Stdev[m.Name] = m.Bootstrap.Stdev
		res.Percentiles[m.Name] = m.Bootstrap.Interval()
	}
	return res
}

// Flat returns r as evaluator-shaped name/value pairs. Bootstrap reports
// yield the "{metric}_bootstrap" family of each metric, single evaluations
// their estimates.
func (r *Report) Flat() []statistics.FlatEntry {
	if res := r.Results(); res != nil {
		return res.Entries()
	}
	out := make([]statistics.FlatEntry, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		if m.Estimate != nil {
			out = append(out, statistics.FlatEntry{Key: m.Name, Value: *m.Estimate})
		}
	}
	return out
}

// WriteFlat writes one "name<TAB>value" line per flat entry. Values use the
// shortest representation that parses back to the same float64.
func WriteFlat(w io.Writer, r *Report) error {
	for _, e := range r.Flat() {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Key, strconv.FormatFloat(e.Value, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}
