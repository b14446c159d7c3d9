// Package plot renders the throughput-versus-error chart as a PNG.
//
// The chart draws optimal throughput on a linear y-axis against error
// probability on a logarithmic x-axis, with one marker per shard size
// connected in input order.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/calc"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/logging"
)

var (
	// ErrEmptySeries is returned when there is nothing to draw or the
	// two coordinate slices differ in length.
	ErrEmptySeries = errors.New("empty or mismatched series")

	// ErrNonPositiveError is returned when an error probability cannot be
	// placed on a logarithmic axis.
	ErrNonPositiveError = errors.New("error probability must be positive and finite")

	// ErrNonFiniteThroughput is returned when a throughput is NaN or infinite.
	ErrNonFiniteThroughput = errors.New("throughput must be finite")

	// ErrInvalidOptions is returned for non-positive dimensions or DPI.
	ErrInvalidOptions = errors.New("invalid plot options")
)

// Chart defaults.
const (
	DefaultTitle  = "Optimal Throughput vs Error for Different Shard Sizes"
	DefaultXLabel = "Error (exponential notation)"
	DefaultYLabel = "Optimal Throughput"
	DefaultWidth  = 8.0
	DefaultHeight = 5.0
	DefaultDPI    = 300
)

var lineColor = color.RGBA{B: 255, A: 255}

// Series holds the chart coordinates. Errors are x values and
// Throughputs are y values, paired by index.
type Series struct {
	Errors      []float64
	Throughputs []float64
}

// FromResults builds a series from sweep results, preserving order.
func FromResults(results calc.Results) Series {
	errs, tputs := results.Series()
	return Series{Errors: errs, Throughputs: tputs}
}

// Validate checks the series can be drawn on a log-scaled x-axis.
func (s Series) Validate() error {
	if len(s.Errors) == 0 || len(s.Errors) != len(s.Throughputs) {
		return fmt.Errorf("%w: %d errors, %d throughputs", ErrEmptySeries, len(s.Errors), len(s.Throughputs))
	}
	for i, e := range s.Errors {
		if !(e > 0) || math.IsInf(e, 0) {
			return fmt.Errorf("point %d: %w: %g", i, ErrNonPositiveError, e)
		}
	}
	for i, t := range s.Throughputs {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("point %d: %w: %g", i, ErrNonFiniteThroughput, t)
		}
	}
	return nil
}

// Options controls chart labels and image size.
// Width and Height are in inches.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  float64
	Height float64
	DPI    int
}

// DefaultOptions returns the standard chart options.
func DefaultOptions() Options {
	return Options{
		Title:  DefaultTitle,
		XLabel: DefaultXLabel,
		YLabel: DefaultYLabel,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		DPI:    DefaultDPI,
	}
}

// withDefaults fills empty labels from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.XLabel == "" {
		o.XLabel = d.XLabel
	}
	if o.YLabel == "" {
		o.YLabel = d.YLabel
	}
	return o
}

func (o Options) validate() error {
	if !(o.Width > 0) || !(o.Height > 0) || o.DPI <= 0 {
		return fmt.Errorf("%w: %gx%g in at %d dpi", ErrInvalidOptions, o.Width, o.Height, o.DPI)
	}
	return nil
}

// Render draws the chart and writes it to w as PNG.
func Render(w io.Writer, s Series, opts Options) error {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	p, err := build(s, opts)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Save renders the chart to path, creating parent directories as needed.
// Nothing is written if rendering fails.
func Save(path string, s Series, opts Options) error {
	log := logging.Get("plot")

	var buf bytes.Buffer
	if err := Render(&buf, s, opts); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create plot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}

	log.Debug("plot saved", "path", path, "points", len(s.Errors), "bytes", buf.Len())
	return nil
}

func build(s Series, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}

	grid := plotter.NewGrid()
	for _, ls := range []*draw.LineStyle{&grid.Vertical, &grid.Horizontal} {
		ls.Width = vg.Points(0.5)
		ls.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}

	xys := make(plotter.XYs, len(s.Errors))
	for i := range s.Errors {
		xys[i].X = s.Errors[i]
		xys[i].Y = s.Throughputs[i]
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("build series: %w", err)
	}
	line.Color = lineColor
	points.Color = lineColor
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(3)

	p.Add(grid, line, points)

	// A log axis needs a non-empty positive range.
	if p.X.Min == p.X.Max {
		x := p.X.Min
		p.X.Min, p.X.Max = x/10, x*10
	}

	return p, nil
}
