package evaluation

import (
	"fmt"

	"github.com/fairci/fairci/internal/metrics"
)

// DefaultThreshold is the decision threshold applied to scores unless the
// caller picks another one.
const DefaultThreshold = 0.50

// ThresholdEvaluator binarizes scores at a threshold and reports overall
// confusion-matrix metrics, the same rates per sensitive group, and the
// largest between-group gap of each rate.
type ThresholdEvaluator struct {
	// PositiveLabel is the label value treated as the positive class.
	PositiveLabel float64
	// MinGroupSize drops groups with fewer examples from the disparity
	// computation. Zero keeps every non-empty group.
	MinGroupSize int
	// Groups fixes the sensitive groups reported per metric. Set it from the
	// full sample before bootstrapping so that a resample that misses a group
	// still reports the same metric names. When empty, the groups present in
	// the evaluated sample are used.
	Groups []string
}

// NewThresholdEvaluator returns an evaluator with positive label 1.
func NewThresholdEvaluator() *ThresholdEvaluator {
	return &ThresholdEvaluator{PositiveLabel: 1}
}

// groupRates are the per-group metrics that also feed the disparity metrics.
var groupRates = []struct {
	name string
	fn   func(metrics.Confusion) float64
}{
	{"accuracy", metrics.Confusion.Accuracy},
	{"fpr", metrics.Confusion.FPR},
	{"ppr", metrics.Confusion.PPR},
	{"tpr", metrics.Confusion.TPR},
}

// Evaluate implements Evaluator.
func (e *ThresholdEvaluator) Evaluate(s Sample, threshold float64) (Metrics, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("cannot evaluate an empty sample")
	}

	labels := make([]float64, s.Len())
	preds := make([]metrics.Prediction, s.Len())
	byGroup := make(map[string][]metrics.Prediction)

	for i := range s.YTrue {
		p := metrics.Prediction{
			Actual:    s.YTrue[i] == e.PositiveLabel,
			Predicted: s.YScores[i] >= threshold,
		}
		if p.Actual {
			labels[i] = 1
		}
		preds[i] = p
		byGroup[s.Sensitive[i]] = append(byGroup[s.Sensitive[i]], p)
	}
	overall := metrics.ComputeConfusion(preds)

	out := Metrics{
		"accuracy":     overall.Accuracy(),
		"tpr":          overall.TPR(),
		"fpr":          overall.FPR(),
		"tnr":          overall.TNR(),
		"fnr":          overall.FNR(),
		"precision":    overall.Precision(),
		"ppr":          overall.PPR(),
		"f1":           overall.F1(),
		"squared_loss": metrics.SquaredLoss(labels, s.YScores),
		"log_loss":     metrics.LogLoss(labels, s.YScores),
	}

	groups := e.Groups
	if len(groups) == 0 {
		groups = s.Groups()
	}

	gaps := make(map[string][]float64, len(groupRates))
	for _, g := range groups {
		// Groups absent from the sample tally to an empty matrix.
		c := metrics.ComputeConfusion(byGroup[g])
		for _, r := range groupRates {
			v := r.fn(c)
			out[fmt.Sprintf("%s_group=%s", r.name, g)] = v
			if c.Total() > 0 && c.Total() >= e.MinGroupSize {
				gaps[r.name] = append(gaps[r.name], v)
			}
		}
	}

	for _, r := range groupRates {
		out[r.name+"_diff"] = metrics.MaxAbsGap(gaps[r.name])
	}
	out["equalized_odds_diff"] = max(out["tpr_diff"], out["fpr_diff"])

	return out, nil
}
