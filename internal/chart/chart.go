// Package chart renders a statistics category selection as a horizontal bar chart,
// either as an image file through gonum/plot or as text for terminals.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/LeoCastillo21/Proyecto/internal/stats"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to chart
var ErrNoData = errors.New("no statistics to chart")

const (
	DefaultTitle  = "Estadisticas"
	DefaultXLabel = "Total"
	DefaultYLabel = "Nombres"
)

var supportedFormats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "jpg": true, "jpeg": true,
}

// Options controls chart labels and image size
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns the 10x6 inch layout used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Title:  DefaultTitle,
		XLabel: DefaultXLabel,
		YLabel: DefaultYLabel,
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// Render builds a horizontal bar chart with the highest value on top.
// Each category gets its own colour and legend entry; points are expected
// in the order produced by stats.Series.
func Render(points []stats.Point, opts Options) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.X.Min = 0
	p.Legend.Top = true

	// Index 0 is drawn at the bottom of the Y axis, so reverse the points.
	ordered := lo.Reverse(append([]stats.Point(nil), points...))
	names := lo.Map(ordered, func(pt stats.Point, _ int) string {
		return pt.Name
	})

	categories := lo.Uniq(lo.Map(points, func(pt stats.Point, _ int) string {
		return pt.Category
	}))

	for i, category := range categories {
		values := make(plotter.Values, len(ordered))
		for j, pt := range ordered {
			if pt.Category == category {
				values[j] = pt.Value
			}
		}

		bars, err := plotter.NewBarChart(values, barWidth(opts.Height, len(ordered)))
		if err != nil {
			return nil, fmt.Errorf("creating bars for %s: %w", category, err)
		}
		bars.Horizontal = true
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0

		p.Add(bars)
		p.Legend.Add(category, bars)
	}

	p.NominalY(names...)

	return p, nil
}

// barWidth fits n bars into the plot height, leaving room for labels
func barWidth(height vg.Length, n int) vg.Length {
	w := height * 0.6 / vg.Length(n)
	if w > 20 {
		return 20
	}
	if w < 2 {
		return 2
	}
	return w
}

// Save renders the chart to path; the extension selects the image format
func Save(points []stats.Point, path string, opts Options) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supportedFormats[format] {
		return fmt.Errorf("unsupported chart format: %q (use png, svg, pdf or jpg)", filepath.Ext(path))
	}

	p, err := Render(points, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}

// WriteImage renders the chart in format to w
func WriteImage(w io.Writer, points []stats.Point, format string, opts Options) error {
	format = strings.ToLower(format)
	if !supportedFormats[format] {
		return fmt.Errorf("unsupported chart format: %q", format)
	}

	p, err := Render(points, opts)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("creating chart writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

// WriteText draws the chart with block characters, one line per point.
// width is the length of the longest bar.
func WriteText(w io.Writer, points []stats.Point, width int) error {
	if len(points) == 0 {
		return ErrNoData
	}
	if width < 1 {
		width = 40
	}

	maxValue := lo.Max(lo.FilterMap(points, func(pt stats.Point, _ int) (float64, bool) {
		return pt.Value, !math.IsInf(pt.Value, 0) && !math.IsNaN(pt.Value)
	}))
	nameWidth := lo.Max(lo.Map(points, func(pt stats.Point, _ int) int {
		return utf8.RuneCountInString(pt.Name)
	}))
	multiCategory := len(lo.UniqBy(points, func(pt stats.Point) string { return pt.Category })) > 1

	for _, pt := range points {
		n := barLength(pt.Value, maxValue, width)

		pad := strings.Repeat(" ", nameWidth-utf8.RuneCountInString(pt.Name))
		line := fmt.Sprintf("%s%s │%s %s", pt.Name, pad, strings.Repeat("█", n), formatValue(pt.Value))
		if multiCategory {
			line += " (" + pt.Category + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// barLength scales v against top into [0, width]; positive values get at least one block
func barLength(v, top float64, width int) int {
	if !(v > 0) || !(top > 0) {
		return 0
	}
	ratio := v / top
	if math.IsNaN(ratio) {
		return 0
	}
	n := int(math.Min(ratio, 1) * float64(width))
	if n < 1 {
		return 1
	}
	return n
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
