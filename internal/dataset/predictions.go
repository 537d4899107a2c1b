package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fairci/fairci/internal/evaluation"
)

// Default column names of a predictions CSV.
const (
	DefaultLabelColumn = "y_true"
	DefaultScoreColumn = "y_pred_scores"
	DefaultGroupColumn = "sensitive_attr"
)

// Columns names the CSV columns holding labels, scores and the sensitive
// attribute.
type Columns struct {
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Score string `yaml:"score,omitempty" json:"score,omitempty"`
	Group string `yaml:"group,omitempty" json:"group,omitempty"`
}

// DefaultColumns returns y_true, y_pred_scores and sensitive_attr.
func DefaultColumns() Columns {
	return Columns{
		Label: DefaultLabelColumn,
		Score: DefaultScoreColumn,
		Group: DefaultGroupColumn,
	}
}

// LoadSample reads a predictions CSV into an evaluation sample.
func LoadSample(path string, cols Columns) (evaluation.Sample, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return evaluation.Sample{}, err
	}
	return SampleFromRows(rows, cols)
}

// RowRange selects data rows Start through End, 1-based and inclusive. A
// zero End means through the last row. The zero RowRange selects every row.
type RowRange struct {
	Start int
	End   int
}

// ParseRowRange parses "start:end", "start:" or "start". An empty string
// returns the zero RowRange.
func ParseRowRange(s string) (RowRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RowRange{}, nil
	}

	startStr, endStr, hasColon := strings.Cut(s, ":")
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return RowRange{}, fmt.Errorf("row range %q: start is not a number", s)
	}

	r := RowRange{Start: start, End: start}
	if hasColon {
		r.End = 0
		if endStr = strings.TrimSpace(endStr); endStr != "" {
			if r.End, err = strconv.Atoi(endStr); err != nil {
				return RowRange{}, fmt.Errorf("row range %q: end is not a number", s)
			}
		}
	}

	if r.Start < 1 {
		return RowRange{}, fmt.Errorf("row range %q: start must be >= 1", s)
	}
	if r.End != 0 && r.End < r.Start {
		return RowRange{}, fmt.Errorf("row range %q: end must be >= start", s)
	}
	return r, nil
}

// IsZero reports whether r selects every row.
func (r RowRange) IsZero() bool {
	return r == RowRange{}
}

func (r RowRange) String() string {
	switch {
	case r.IsZero():
		return ""
	case r.End == 0:
		return fmt.Sprintf("%d:", r.Start)
	default:
		return fmt.Sprintf("%d:%d", r.Start, r.End)
	}
}

// LoadSampleRange reads the rows of a predictions CSV selected by r. Row
// numbers in errors count from the first row of the file.
func LoadSampleRange(path string, cols Columns, r RowRange) (evaluation.Sample, error) {
	if r.IsZero() {
		return LoadSample(path, cols)
	}

	end := r.End
	if end == 0 {
		end = math.MaxInt
	}
	rows, err := LoadCSVRange(path, r.Start, end)
	if err != nil {
		return evaluation.Sample{}, err
	}
	if len(rows) == 0 {
		return evaluation.Sample{}, fmt.Errorf("csv: %s has no rows in range %s", path, r)
	}
	return sampleFromRows(rows, cols, r.Start-1)
}

// SampleFromRows converts parsed CSV rows into an evaluation sample. Errors
// name the 1-based data row that failed.
func SampleFromRows(rows []Row, cols Columns) (evaluation.Sample, error) {
	return sampleFromRows(rows, cols, 0)
}

func sampleFromRows(rows []Row, cols Columns, offset int) (evaluation.Sample, error) {
	s := evaluation.Sample{
		YTrue:     make([]float64, 0, len(rows)),
		YScores:   make([]float64, 0, len(rows)),
		Sensitive: make([]string, 0, len(rows)),
	}

	for i, row := range rows {
		i += offset
		label, err := row.Float(cols.Label)
		if err != nil {
			return evaluation.Sample{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		score, err := row.Float(cols.Score)
		if err != nil {
			return evaluation.Sample{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		group, ok := row[cols.Group]
		if !ok {
			return evaluation.Sample{}, fmt.Errorf("row %d: missing column %q", i+1, cols.Group)
		}

		s.YTrue = append(s.YTrue, label)
		s.YScores = append(s.YScores, score)
		s.Sensitive = append(s.Sensitive, strings.TrimSpace(group))
	}

	return s, nil
}
