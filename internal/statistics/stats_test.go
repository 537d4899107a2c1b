package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"min", 0, 15},
		{"max", 100, 50},
		{"median", 50, 35},
		{"interpolated 2.5", 2.5, 15.5},
		{"interpolated 97.5", 97.5, 49},
		{"interpolated 40", 40, 29},
		{"clamped below", -5, 15},
		{"clamped above", 120, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(values, tt.p), 1e-9)
		})
	}
}

func TestPercentile_UnsortedInputUntouched(t *testing.T) {
	values := []float64{3, 1, 2}
	assert.InDelta(t, 2.0, Percentile(values, 50), 1e-12)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentile_Edges(t *testing.T) {
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 97.5))
}

func TestPercentile_ConstantIsExact(t *testing.T) {
	constants := []float64{0.1, 0.3, 1.0 / 3.0, 0.7, 0.123456789}
	percentiles := []float64{0, 2.5, 5, 33.3, 50, 66.7, 95, 97.5, 100}

	for _, c := range constants {
		for _, n := range []int{2, 3, 5, 200} {
			values := make([]float64, n)
			for i := range values {
				values[i] = c
			}
			for _, p := range percentiles {
				assert.Equal(t, c, Percentile(values, p), "c=%v n=%d p=%v", c, n, p)
			}
		}
	}
}

func TestPercentile_WithinRange(t *testing.T) {
	values := []float64{0.1, 0.1, 0.3, 0.3, 0.7}
	for p := 0.0; p <= 100; p += 0.5 {
		got := Percentile(values, p)
		assert.GreaterOrEqual(t, got, 0.1, "p=%v", p)
		assert.LessOrEqual(t, got, 0.7, "p=%v", p)
	}
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.1, lerp(0.1, 0.1, 0.3))
	assert.Equal(t, 0.1, lerp(0.1, 0.1, 0.7))
	assert.Equal(t, 1.0, lerp(1, 3, 0))
	assert.Equal(t, 3.0, lerp(1, 3, 1))
	assert.Equal(t, 2.0, lerp(1, 3, 0.5))
}

func TestMeanStdev_ConstantIsExact(t *testing.T) {
	for _, c := range []float64{0.1, 0.3, 1.0 / 3.0, 0.7, 0.75, 0.123456789} {
		for _, n := range []int{2, 3, 200} {
			values := make([]float64, n)
			for i := range values {
				values[i] = c
			}
			mean, stdev, err := MeanStdev(values)
			require.NoError(t, err)
			assert.Equal(t, c, mean, "c=%v n=%d", c, n)
			assert.Equal(t, 0.0, stdev, "c=%v n=%d", c, n)
		}
	}
}

func TestMeanStdev(t *testing.T) {
	mean, stdev, err := MeanStdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mean, 1e-12)
	// sample stdev: sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), stdev, 1e-12)

	_, _, err = MeanStdev([]float64{1})
	require.ErrorIs(t, err, ErrTooFewReplicates)
	_, _, err = MeanStdev(nil)
	require.ErrorIs(t, err, ErrTooFewReplicates)
}

func TestInterval(t *testing.T) {
	iv := Interval{Low: -0.1, High: 0.3}
	assert.InDelta(t, 0.4, iv.Width(), 1e-12)
	assert.True(t, iv.Contains(0))
	assert.True(t, iv.Contains(0.3))
	assert.False(t, iv.Contains(0.31))
}

func TestIsSignificant(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
		want bool
	}{
		{"both positive", Interval{Low: 0.1, High: 0.5}, true},
		{"both negative", Interval{Low: -0.5, High: -0.1}, true},
		{"crosses zero", Interval{Low: -0.1, High: 0.3}, false},
		{"lower at zero", Interval{Low: 0.0, High: 0.5}, false},
		{"upper at zero", Interval{Low: -0.3, High: 0.0}, false},
		{"both zero", Interval{Low: 0.0, High: 0.0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSignificant(tt.iv); got != tt.want {
				t.Errorf("IsSignificant(%+v) = %v, want %v", tt.iv, got, tt.want)
			}
		})
	}
}
