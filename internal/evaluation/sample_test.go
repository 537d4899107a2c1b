package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sample  Sample
		wantErr string
	}{
		{
			name: "aligned",
			sample: Sample{
				YTrue:     []float64{0, 1},
				YScores:   []float64{0.2, 0.8},
				Sensitive: []string{"a", "b"},
			},
		},
		{
			name:    "empty is aligned",
			sample:  Sample{},
			wantErr: "",
		},
		{
			name: "scores shorter",
			sample: Sample{
				YTrue:     []float64{0, 1},
				YScores:   []float64{0.2},
				Sensitive: []string{"a", "b"},
			},
			wantErr: "y_pred_scores has 1",
		},
		{
			name: "sensitive shorter",
			sample: Sample{
				YTrue:     []float64{0, 1},
				YScores:   []float64{0.2, 0.8},
				Sensitive: []string{"a"},
			},
			wantErr: "sensitive_attr has 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sample.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrLengthMismatch)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSample_Gather(t *testing.T) {
	s := Sample{
		YTrue:     []float64{0, 1, 1},
		YScores:   []float64{0.1, 0.6, 0.9},
		Sensitive: []string{"a", "b", "c"},
	}

	got := s.Gather([]int{2, 2, 0})
	assert.Equal(t, []float64{1, 1, 0}, got.YTrue)
	assert.Equal(t, []float64{0.9, 0.9, 0.1}, got.YScores)
	assert.Equal(t, []string{"c", "c", "a"}, got.Sensitive)

	// the source sample is not aliased
	got.YTrue[0] = 42
	assert.Equal(t, []float64{0, 1, 1}, s.YTrue)
}

func TestSample_Groups(t *testing.T) {
	s := Sample{Sensitive: []string{"b", "a", "b", "c", "a"}}
	assert.Equal(t, []string{"b", "a", "c"}, s.Groups())
}
