// Package reporting builds the documents written by the fairci commands and
// renders them as terminal tables, JSON, YAML, Markdown, HTML and JUnit XML.
package reporting

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairci/fairci/internal/evaluation"
	"github.com/fairci/fairci/internal/statistics"
)

// DisparitySuffix marks metrics that measure a gap between groups.
const DisparitySuffix = "_diff"

// IsDisparity reports whether metric measures a between-group gap.
func IsDisparity(metric string) bool {
	return strings.HasSuffix(metric, DisparitySuffix)
}

// BootstrapSummary is the bootstrap distribution summary of one metric.
type BootstrapSummary struct {
	Mean  float64 `json:"mean" yaml:"mean"`
	Stdev float64 `json:"stdev" yaml:"stdev"`
	Low   float64 `json:"low" yaml:"low"`
	High  float64 `json:"high" yaml:"high"`
	// Significant is true when the interval excludes zero.
	Significant bool `json:"significant" yaml:"significant"`
}

// Interval returns the percentile interval of the summary.
func (b BootstrapSummary) Interval() statistics.Interval {
	return statistics.Interval{Low: b.Low, High: b.High}
}

// MetricSummary is one row of a report.
type MetricSummary struct {
	Name string `json:"name" yaml:"name"`
	// Estimate is the metric evaluated on the full sample, if known.
	Estimate  *float64          `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Bootstrap *BootstrapSummary `json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
}

// Report is the result document of one fairci run.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Input     string    `json:"input,omitempty" yaml:"input,omitempty"`
	Samples   int       `json:"samples" yaml:"samples"`
	Threshold float64   `json:"threshold" yaml:"threshold"`
	// Options is nil for single evaluations.
	Options *statistics.BootstrapOptions `json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
	Metrics []MetricSummary              `json:"metrics" yaml:"metrics"`
}

func newReport(input string, samples int, threshold float64) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Input:     input,
		Samples:   samples,
		Threshold: threshold,
	}
}

// NewEvaluationReport wraps a single evaluation of the full sample.
func NewEvaluationReport(input string, samples int, threshold float64, m evaluation.Metrics) *Report {
	r := newReport(input, samples, threshold)
	for _, name := range m.Names() {
		r.Metrics = append(r.Metrics, MetricSummary{Name: name, Estimate: float64Ptr(m[name])})
	}
	return r
}

// NewBootstrapReport combines bootstrap results with the optional full-sample
// point estimates. Metrics are listed in lexicographic order.
func NewBootstrapReport(input string, samples int, opts statistics.BootstrapOptions, point evaluation.Metrics, res *statistics.Results) *Report {
	r := newReport(input, samples, opts.Threshold)
	r.Options = &opts
	for _, name := range res.MetricNames() {
		iv := res.Percentiles[name]
		s := MetricSummary{
			Name: name,
			Bootstrap: &BootstrapSummary{
				Mean:        res.Mean[name],
				Stdev:       res.Stdev[name],
				Low:         iv.Low,
				High:        iv.High,
				Significant: statistics.IsSignificant(iv),
			},
		}
		if v, ok := point[name]; ok {
			s.Estimate = float64Ptr(v)
		}
		r.Metrics = append(r.Metrics, s)
	}
	return r
}

// IsBootstrap reports whether the report carries bootstrap intervals.
func (r *Report) IsBootstrap() bool {
	return r.Options != nil
}

// Disparities returns the bootstrapped disparity metrics of the report.
func (r *Report) Disparities() []MetricSummary {
	var out []MetricSummary
	for _, m := range r.Metrics {
		if m.Bootstrap != nil && IsDisparity(m.Name) {
			out = append(out, m)
		}
	}
	return out
}

// SignificantDisparities returns the disparity metrics whose interval
// excludes zero.
func (r *Report) SignificantDisparities() []MetricSummary {
	var out []MetricSummary
	for _, m := range r.Disparities() {
		if m.Bootstrap.Significant {
			out = append(out, m)
		}
	}
	return out
}

func float64Ptr(v float64) *float64 {
	return &v
}
