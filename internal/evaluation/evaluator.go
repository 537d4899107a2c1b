// Package evaluation computes performance and fairness metrics for a set of
// scored predictions split by a sensitive attribute.
package evaluation

//go:generate mockgen -source=evaluator.go -destination=mocks/evaluator.go -package=mocks Evaluator

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// Metrics maps a metric name to its value.
type Metrics map[string]float64

// Names returns the metric names in lexicographic order.
func (m Metrics) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Evaluator scores one sample at a fixed decision threshold.
type Evaluator interface {
	Evaluate(s Sample, threshold float64) (Metrics, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(s Sample, threshold float64) (Metrics, error)

func (f EvaluatorFunc) Evaluate(s Sample, threshold float64) (Metrics, error) {
	return f(s, threshold)
}

type Kind string

const (
	KindThreshold Kind = "threshold"
)

// DefaultKind is used when the configuration leaves the evaluator kind empty.
const DefaultKind = KindThreshold

// New builds an evaluator of the given kind from free-form parameters, as
// found under `evaluator.params` in .fairci.yaml.
func New(kind Kind, params map[string]any) (Evaluator, error) {
	if kind == "" {
		kind = DefaultKind
	}

	switch kind {
	case KindThreshold:
		v := &struct {
			PositiveLabel *float64 `mapstructure:"positive_label"`
			MinGroupSize  int      `mapstructure:"min_group_size"`
			Groups        []string `mapstructure:"groups"`
		}{}

		if err := mapstructure.Decode(params, v); err != nil {
			return nil, fmt.Errorf("decoding %s evaluator params: %w", kind, err)
		}

		e := NewThresholdEvaluator()
		if v.PositiveLabel != nil {
			e.PositiveLabel = *v.PositiveLabel
		}
		if v.MinGroupSize < 0 {
			return nil, fmt.Errorf("min_group_size must be >= 0, got %d", v.MinGroupSize)
		}
		e.MinGroupSize = v.MinGroupSize
		e.Groups = v.Groups
		return e, nil
	default:
		return nil, fmt.Errorf("unknown evaluator kind %q", kind)
	}
}
