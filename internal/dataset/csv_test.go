package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		wantRows int
		wantCols int
		wantErr  string
	}{
		{
			name:     "three rows three columns",
			csv:      "y_true,y_pred_scores,sensitive_attr\n1,0.9,a\n0,0.2,b\n1,0.4,a\n",
			wantRows: 3,
			wantCols: 3,
		},
		{
			name:     "header only",
			csv:      "y_true,y_pred_scores,sensitive_attr\n",
			wantRows: 0,
		},
		{
			name:    "empty file",
			csv:     "",
			wantErr: "no header row",
		},
		{
			name:    "mismatched column count",
			csv:     "y_true,y_pred_scores\n1,0.5\n0\n",
			wantErr: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, t.TempDir(), "test.csv", tt.csv)

			rows, err := LoadCSV(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
			if tt.wantRows > 0 {
				assert.Len(t, rows[0], tt.wantCols)
			}
		})
	}
}

func TestReadCSV_TrimsHeaders(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(" y_true , score\n1, 0.5\n"), "inline")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["y_true"])
	assert.Equal(t, "0.5", rows[0]["score"])
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/path/data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: open")
}

func TestLoadCSVRange(t *testing.T) {
	content := "y_true,y_pred_scores,sensitive_attr\n1,0.1,a\n0,0.2,a\n1,0.3,b\n0,0.4,b\n1,0.5,b\n"

	tests := []struct {
		name      string
		start     int
		end       int
		wantFirst string
		wantRows  int
		wantErr   string
	}{
		{name: "middle range", start: 2, end: 3, wantRows: 2, wantFirst: "0.2"},
		{name: "single row", start: 1, end: 1, wantRows: 1, wantFirst: "0.1"},
		{name: "end clamps", start: 4, end: 100, wantRows: 2, wantFirst: "0.4"},
		{name: "start beyond rows", start: 9, end: 10, wantRows: 0},
		{name: "start below one", start: 0, end: 1, wantErr: "range start must be >= 1"},
		{name: "end before start", start: 3, end: 1, wantErr: "range end (1) must be >= start (3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, t.TempDir(), "test.csv", content)

			rows, err := LoadCSVRange(path, tt.start, tt.end)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, rows, tt.wantRows)
			if tt.wantRows > 0 {
				assert.Equal(t, tt.wantFirst, rows[0]["y_pred_scores"])
			}
		})
	}
}

func TestRow_Float(t *testing.T) {
	row := Row{"a": " 0.25 ", "b": "n/a"}

	v, err := row.Float("a")
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	_, err = row.Float("b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"n/a" is not a number`)

	_, err = row.Float("c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "c"`)
}
