package evaluation

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when the sample arrays do not share one length.
var ErrLengthMismatch = errors.New("sample arrays have different lengths")

// Sample holds the three aligned arrays a model evaluation needs. Index i of
// every slice refers to the same example.
type Sample struct {
	YTrue     []float64 `json:"y_true" yaml:"y_true"`
	YScores   []float64 `json:"y_pred_scores" yaml:"y_pred_scores"`
	Sensitive []string  `json:"sensitive_attr" yaml:"sensitive_attr"`
}

// Len returns the number of examples.
func (s Sample) Len() int {
	return len(s.YTrue)
}

// Validate checks that labels, scores and the sensitive attribute have the
// same length.
func (s Sample) Validate() error {
	if len(s.YTrue) != len(s.YScores) {
		return fmt.Errorf("%w: y_true has %d values, y_pred_scores has %d", ErrLengthMismatch, len(s.YTrue), len(s.YScores))
	}
	if len(s.Sensitive) != len(s.YTrue) {
		return fmt.Errorf("%w: y_true has %d values, sensitive_attr has %d", ErrLengthMismatch, len(s.YTrue), len(s.Sensitive))
	}
	return nil
}

// Gather returns a new Sample made of the rows at the given indices, in order.
// Indices may repeat. The receiver is left untouched.
func (s Sample) Gather(indices []int) Sample {
	out := Sample{
		YTrue:     make([]float64, len(indices)),
		YScores:   make([]float64, len(indices)),
		Sensitive: make([]string, len(indices)),
	}
	for i, idx := range indices {
		out.YTrue[i] = s.YTrue[idx]
		out.YScores[i] = s.YScores[idx]
		out.Sensitive[i] = s.Sensitive[idx]
	}
	return out
}

// Groups returns the distinct sensitive attribute values in first-seen order.
func (s Sample) Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, g := range s.Sensitive {
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups
}
