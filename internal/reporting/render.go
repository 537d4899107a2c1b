package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Format is a report output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatFlat     Format = "flat"
)

// Formats lists the formats accepted by ParseFormat.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown, FormatFlat}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want table, json, yaml, markdown or flat)", s)
}

var printer = message.NewPrinter(language.English)

// Write renders r to w in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatTable:
		return WriteTable(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatFlat:
		return WriteFlat(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// tableHeader returns the column titles for r.
func tableHeader(r *Report) []string {
	if !r.IsBootstrap() {
		return []string{"Metric", "Value"}
	}
	low, high := r.Options.PercentileBounds()
	return []string{
		"Metric", "Estimate", "Mean", "Stdev",
		printer.Sprintf("P%g", low), printer.Sprintf("P%g", high), "Sig",
	}
}

// tableRows returns the formatted cells of r, one slice per metric.
func tableRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		est := "-"
		if m.Estimate != nil {
			est = printer.Sprintf("%.4f", *m.Estimate)
		}
		if m.Bootstrap == nil {
			rows = append(rows, []string{m.Name, est})
			continue
		}
		b := m.Bootstrap
		sig := ""
		if IsDisparity(m.Name) && b.Significant {
			sig = "*"
		}
		rows = append(rows, []string{
			m.Name, est,
			printer.Sprintf("%.4f", b.Mean),
			printer.Sprintf("%.4f", b.Stdev),
			printer.Sprintf("%.4f", b.Low),
			printer.Sprintf("%.4f", b.High),
			sig,
		})
	}
	return rows
}

// WriteTable writes r as an aligned plain-text table followed by the
// interpretation summary.
func WriteTable(w io.Writer, r *Report) error {
	header := tableHeader(r)
	rows := tableRows(r)

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(padRight(cell, widths[i]))
		}
		b.WriteString("\n")
	}

	writeRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = strings.Repeat("─", widths[i])
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	b.WriteString("\n")
	b.WriteString(FormatSummary(r))

	_, err := io.WriteString(w, b.String())
	return err
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// Markdown renders r as a Markdown document with a GitHub-style table.
func Markdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# fairci report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	if r.Input != "" {
		fmt.Fprintf(&b, "- Input: `%s`\n", r.Input)
	}
	fmt.Fprintf(&b, "- Samples: %d\n", r.Samples)
	fmt.Fprintf(&b, "- Threshold: %g\n", r.Threshold)
	if r.Options != nil {
		fmt.Fprintf(&b, "- Replicates: %d (seed %d, %g%% confidence)\n", r.Options.K, r.Options.Seed, r.Options.ConfidencePct)
	}
	b.WriteString("\n")

	header := tableHeader(r)
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range tableRows(r) {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return b.String()
}

// HTML renders the Markdown form of r as a standalone HTML page.
func HTML(r *Report) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("rendering HTML report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>fairci report %s</title>\n", r.RunID)
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// WriteHTML writes the HTML form of r to path.
func WriteHTML(r *Report, path string) error {
	data, err := HTML(r)
	if err != nil {
		return err
	}
	slog.Info("Saving HTML report", "path", path)
	return os.WriteFile(path, data, 0644)
}
