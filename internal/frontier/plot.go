package frontier

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// bandAlpha is the opacity of the shaded confidence band.
const bandAlpha = 0.1

// upperRightOffset nudges the vertical closing segment left of the last
// frontier point so it draws as a line rather than a zero-width segment.
const upperRightOffset = 1e-6

// PlotOptions selects what to plot from a results table.
type PlotOptions struct {
	PerfMetric   string
	DispMetric   string
	DataType     string
	ModelName    string
	ConstantPerf float64
	// Color is a CSS color name or #rrggbb hex string. Empty means black.
	Color string
}

// Plot renders the post-processing frontier of results with its confidence
// band. The frontier is drawn dash-dot, the dominated region above its last
// point dotted grey, and the band shaded in the same color.
func Plot(results []Result, opts PlotOptions) (*plot.Plot, error) {
	c, err := ParseColor(opts.Color)
	if err != nil {
		return nil, err
	}

	front, err := Frontier(results, opts.PerfMetric, opts.DispMetric, opts.DataType, opts.ConstantPerf)
	if err != nil {
		return nil, err
	}
	bands, err := ConfidenceBands(results, opts.PerfMetric, opts.DispMetric, opts.DataType, opts.ConstantPerf)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.X.Label.Text = opts.PerfMetric
	p.Y.Label.Text = opts.DispMetric
	p.Y.Min = 0
	p.Legend.Top = true

	last := front[len(front)-1]
	upper, err := plotter.NewLine(plotter.XYs{
		{X: last.Perf, Y: last.Disp},
		{X: last.Perf - upperRightOffset, Y: MaxDisparity},
	})
	if err != nil {
		return nil, fmt.Errorf("frontier: dominated segment: %w", err)
	}
	upper.Color = color.Gray{Y: 128}
	upper.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	p.Add(upper)

	frontPts := make(plotter.XYs, len(front))
	for i, pt := range front {
		frontPts[i].X = pt.Perf
		frontPts[i].Y = pt.Disp
	}
	line, err := plotter.NewLine(frontPts)
	if err != nil {
		return nil, fmt.Errorf("frontier: line: %w", err)
	}
	line.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3), vg.Points(1), vg.Points(3)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("post-processing of %s", opts.ModelName), line)

	// Outer curve left to right, then inner curve back.
	ring := make(plotter.XYs, 0, 2*len(bands.X))
	for i, x := range bands.X {
		ring = append(ring, plotter.XY{X: x, Y: bands.Outer[i]})
	}
	for i := len(bands.X) - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: bands.X[i], Y: bands.Inner[i]})
	}
	band, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, fmt.Errorf("frontier: confidence band: %w", err)
	}
	band.Color = withAlpha(c, bandAlpha)
	band.LineStyle.Width = 0
	p.Add(band)
	p.Legend.Add("95% conf. interv.", band)

	return p, nil
}

// Save writes p to path. The image format follows the file extension
// (png, svg, pdf, ...).
func Save(p *plot.Plot, path string, widthIn, heightIn float64) error {
	slog.Info("Saving frontier chart", "path", path)
	if err := p.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("frontier: saving %s: %w", path, err)
	}
	return nil
}

// ParseColor resolves a CSS color name or a #rrggbb hex string.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return colornames.Black, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return nil, fmt.Errorf("invalid hex color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q", s)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	c, ok := colornames.Map[s]
	if !ok {
		return nil, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(alpha*255 + 0.5)
	return n
}
