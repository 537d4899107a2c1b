package statistics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResults_Flatten(t *testing.T) {
	r := &Results{
		Mean:        map[string]float64{"tpr": 0.8, "accuracy": 0.7},
		Stdev:       map[string]float64{"tpr": 0.05, "accuracy": 0.02},
		Percentiles: map[string]Interval{"tpr": {0.7, 0.9}, "accuracy": {0.66, 0.74}},
	}

	flat := r.Flatten()
	assert.Equal(t, Flat{
		"accuracy_bootstrap":                 0.7,
		"accuracy_stdev_bootstrap":           0.02,
		"accuracy_low-percentile_bootstrap":  0.66,
		"accuracy_high-percentile_bootstrap": 0.74,
		"tpr_bootstrap":                      0.8,
		"tpr_stdev_bootstrap":                0.05,
		"tpr_low-percentile_bootstrap":       0.7,
		"tpr_high-percentile_bootstrap":      0.9,
	}, flat)

	var order []string
	for _, e := range r.Entries() {
		order = append(order, e.Key)
		assert.Equal(t, flat[e.Key], e.Value)
	}
	assert.Equal(t, []string{
		"accuracy_bootstrap",
		"accuracy_stdev_bootstrap",
		"accuracy_low-percentile_bootstrap",
		"accuracy_high-percentile_bootstrap",
		"tpr_bootstrap",
		"tpr_stdev_bootstrap",
		"tpr_low-percentile_bootstrap",
		"tpr_high-percentile_bootstrap",
	}, order)
}

func TestEvaluateBootstrap(t *testing.T) {
	sample := exampleSample()
	eval := exampleEvaluator(sample)

	flat, err := EvaluateBootstrap(context.Background(), eval, sample, DefaultBootstrapOptions())
	require.NoError(t, err)

	res, err := BootstrapResults(context.Background(), eval, sample, DefaultBootstrapOptions())
	require.NoError(t, err)

	assert.Len(t, flat, 4*len(res.Mean))
	assert.Equal(t, res.Flatten(), flat)
	assert.LessOrEqual(t, flat["accuracy_low-percentile_bootstrap"], flat["accuracy_high-percentile_bootstrap"])
}
