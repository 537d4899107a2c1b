package frontier

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsCSV = `name,accuracy_mean_test,accuracy_low-percentile_test,accuracy_high-percentile_test,equalized_odds_diff_mean_test,equalized_odds_diff_low-percentile_test,equalized_odds_diff_high-percentile_test
t1,0.70,0.68,0.72,0.02,0.01,0.04
t2,0.75,0.73,0.77,0.05,0.03,0.08
t3,0.72,0.70,0.74,0.10,0.08,0.12
t4,0.80,0.78,0.82,0.15,0.12,0.20
`

func writeResults(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte(resultsCSV), 0o644))
	return path
}

func TestColumn(t *testing.T) {
	assert.Equal(t, "accuracy_mean_test", Column("accuracy", StatMean, "test"))
	assert.Equal(t, "tpr_diff_low-percentile_val", Column("tpr_diff", StatLow, "val"))
}

func TestLoadResults(t *testing.T) {
	results, err := LoadResults(writeResults(t))
	require.NoError(t, err)
	require.Len(t, results, 4)

	_, hasName := results[0]["name"]
	assert.False(t, hasName, "non-numeric cells are skipped")

	s, err := results[1].Stat("accuracy", "test")
	require.NoError(t, err)
	assert.Equal(t, Stat{Mean: 0.75, Low: 0.73, High: 0.77}, s)

	_, err = results[1].Stat("accuracy", "train")
	require.ErrorContains(t, err, "accuracy_mean_train")
}

func TestLoadResults_Errors(t *testing.T) {
	_, err := LoadResults(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("accuracy_mean_test\n"), 0o644))
	_, err = LoadResults(path)
	require.ErrorIs(t, err, ErrNoResults)
}

func TestEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		pts      []Point
		constant float64
		want     []Point
	}{
		{
			name:     "only constant classifier",
			constant: 0.6,
			want:     []Point{{Perf: 0.6, Disp: 0}},
		},
		{
			name: "dominated points dropped",
			pts: []Point{
				{Perf: 0.70, Disp: 0.02},
				{Perf: 0.75, Disp: 0.05},
				{Perf: 0.72, Disp: 0.10},
				{Perf: 0.80, Disp: 0.15},
			},
			constant: 0.6,
			want: []Point{
				{Perf: 0.6, Disp: 0},
				{Perf: 0.70, Disp: 0.02},
				{Perf: 0.75, Disp: 0.05},
				{Perf: 0.80, Disp: 0.15},
			},
		},
		{
			name:     "points below constant performance dropped",
			pts:      []Point{{Perf: 0.5, Disp: 0.01}, {Perf: 0.9, Disp: 0.3}},
			constant: 0.6,
			want:     []Point{{Perf: 0.6, Disp: 0}, {Perf: 0.9, Disp: 0.3}},
		},
		{
			name:     "zero disparity point beats constant",
			pts:      []Point{{Perf: 0.65, Disp: 0}},
			constant: 0.6,
			want:     []Point{{Perf: 0.65, Disp: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Envelope(tt.pts, tt.constant))
		})
	}
}

func TestEnvelope_DoesNotModifyInput(t *testing.T) {
	pts := []Point{{Perf: 0.9, Disp: 0.3}, {Perf: 0.7, Disp: 0.1}}
	Envelope(pts, 0.5)
	assert.Equal(t, []Point{{Perf: 0.9, Disp: 0.3}, {Perf: 0.7, Disp: 0.1}}, pts)
}

func TestDisparityAt(t *testing.T) {
	env := []Point{{Perf: 0.6, Disp: 0}, {Perf: 0.7, Disp: 0.1}, {Perf: 0.8, Disp: 0.2}}

	d, ok := disparityAt(env, 0.5)
	assert.True(t, ok)
	assert.Equal(t, 0.0, d)

	d, ok = disparityAt(env, 0.7)
	assert.True(t, ok)
	assert.Equal(t, 0.1, d)

	d, ok = disparityAt(env, 0.75)
	assert.True(t, ok)
	assert.Equal(t, 0.2, d)

	_, ok = disparityAt(env, 0.85)
	assert.False(t, ok)
}

func TestFrontier(t *testing.T) {
	results, err := LoadResults(writeResults(t))
	require.NoError(t, err)

	front, err := Frontier(results, "accuracy", "equalized_odds_diff", "test", 0.6)
	require.NoError(t, err)
	assert.Equal(t, []Point{
		{Perf: 0.6, Disp: 0},
		{Perf: 0.70, Disp: 0.02},
		{Perf: 0.75, Disp: 0.05},
		{Perf: 0.80, Disp: 0.15},
	}, front)

	_, err = Frontier(results, "f1", "equalized_odds_diff", "test", 0.6)
	require.Error(t, err)

	_, err = Frontier(nil, "accuracy", "equalized_odds_diff", "test", 0.6)
	require.ErrorIs(t, err, ErrNoResults)
}

func TestConfidenceBands(t *testing.T) {
	results, err := LoadResults(writeResults(t))
	require.NoError(t, err)

	b, err := ConfidenceBands(results, "accuracy", "equalized_odds_diff", "test", 0.6)
	require.NoError(t, err)

	require.Len(t, b.Inner, len(b.X))
	require.Len(t, b.Outer, len(b.X))
	assert.IsIncreasing(t, b.X)
	assert.Equal(t, 0.6, b.X[0])
	assert.Equal(t, 0.82, b.X[len(b.X)-1])

	for i := range b.X {
		assert.LessOrEqual(t, b.Outer[i], b.Inner[i], "outer frontier is never worse at x=%v", b.X[i])
	}

	// The pessimistic frontier tops out at 0.78 accuracy.
	assert.Equal(t, MaxDisparity, b.Inner[len(b.X)-1])
	assert.Equal(t, 0.12, b.Outer[len(b.X)-1])
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{in: "", want: color.RGBA{A: 255}},
		{in: "black", want: color.RGBA{A: 255}},
		{in: " Red ", want: color.RGBA{R: 255, A: 255}},
		{in: "#0080ff", want: color.RGBA{G: 0x80, B: 0xff, A: 255}},
		{in: "#08f", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
		{in: "not-a-color", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 255, A: 26}, withAlpha(color.RGBA{R: 255, A: 255}, 0.1))
}

func TestPlotAndSave(t *testing.T) {
	results, err := LoadResults(writeResults(t))
	require.NoError(t, err)

	p, err := Plot(results, PlotOptions{
		PerfMetric:   "accuracy",
		DispMetric:   "equalized_odds_diff",
		DataType:     "test",
		ModelName:    "GBM",
		ConstantPerf: 0.6,
		Color:        "blue",
	})
	require.NoError(t, err)
	assert.Equal(t, "accuracy", p.X.Label.Text)
	assert.Equal(t, "equalized_odds_diff", p.Y.Label.Text)

	out := filepath.Join(t.TempDir(), "frontier.svg")
	require.NoError(t, Save(p, out, 6, 4))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlot_Errors(t *testing.T) {
	results, err := LoadResults(writeResults(t))
	require.NoError(t, err)

	_, err = Plot(results, PlotOptions{PerfMetric: "accuracy", DispMetric: "equalized_odds_diff", DataType: "test", Color: "nope"})
	require.ErrorContains(t, err, "unknown color")

	_, err = Plot(results, PlotOptions{PerfMetric: "accuracy", DispMetric: "tpr_diff", DataType: "test"})
	require.Error(t, err)
}
