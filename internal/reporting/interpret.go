package reporting

import (
	"fmt"
	"strings"
)

// InterpretWidth returns a plain-language label for the width of a
// confidence interval on a [0, 1] metric.
func InterpretWidth(width float64) string {
	switch {
	case width < 0.02:
		return "Tight (<0.02)"
	case width < 0.05:
		return "Moderate (0.02-0.05)"
	case width < 0.10:
		return "Wide (0.05-0.10)"
	default:
		return "Very wide (>=0.10)"
	}
}

// InterpretDisparity explains whether a bootstrapped disparity metric is
// distinguishable from zero.
func InterpretDisparity(m MetricSummary) string {
	if m.Bootstrap == nil {
		return "No bootstrap interval."
	}
	b := m.Bootstrap
	if b.Significant {
		return fmt.Sprintf("Gap is significant: interval [%.4f, %.4f] excludes 0.", b.Low, b.High)
	}
	return fmt.Sprintf("Gap is not significant: interval [%.4f, %.4f] contains 0.", b.Low, b.High)
}

// FormatSummary produces a plain-language summary of a bootstrap report.
func FormatSummary(r *Report) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")
	if !r.IsBootstrap() {
		fmt.Fprintf(&b, "Single evaluation of %d samples at threshold %.2f.\n", r.Samples, r.Threshold)
		return b.String()
	}

	low, high := r.Options.PercentileBounds()
	fmt.Fprintf(&b, "Replicates:    %d (seed %d)\n", r.Options.K, r.Options.Seed)
	fmt.Fprintf(&b, "Samples:       %d\n", r.Samples)
	fmt.Fprintf(&b, "Interval:      %g%% (percentiles %g-%g)\n", r.Options.ConfidencePct, low, high)

	disp := r.Disparities()
	if len(disp) == 0 {
		return b.String()
	}

	sig := r.SignificantDisparities()
	fmt.Fprintf(&b, "Disparities:   %d of %d significant\n", len(sig), len(disp))

	b.WriteString("\nPer-Metric Interpretation:\n")
	for _, m := range disp {
		icon := "✓"
		if m.Bootstrap.Significant {
			icon = "✗"
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", icon, m.Name, InterpretDisparity(m))
		fmt.Fprintf(&b, "    Width: %.4f (%s)\n", m.Bootstrap.Interval().Width(), InterpretWidth(m.Bootstrap.Interval().Width()))
	}

	return b.String()
}
