package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/runnerr0/launchdash/internal/dataset"
)

// Format is an image encoding supported by the renderers.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps a file extension or format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatPNG {
		return gochart.PNG
	}
	return gochart.SVG
}

// RenderOptions controls image size and encoding.
type RenderOptions struct {
	Width  int
	Height int
	Format Format
}

const (
	defaultWidth  = 800
	defaultHeight = 480

	// X axis used when there is nothing to plot.
	emptyMaxPayload = 10000.0
)

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	return o
}

var (
	failureColor = drawing.ColorFromHex("d62728")
	successColor = drawing.ColorFromHex("2ca02c")
	emptyColor   = gochart.ColorLightGray
)

func sliceColor(o Slice) drawing.Color {
	if o.Outcome == dataset.Success {
		return successColor
	}
	return failureColor
}

// RenderProportion draws spec as a pie chart. An empty spec renders a single
// grey placeholder slice.
func RenderProportion(w io.Writer, spec ProportionSpec, opts RenderOptions) error {
	opts = opts.withDefaults()

	values := make([]gochart.Value, 0, len(spec.Slices))
	for _, s := range spec.Slices {
		values = append(values, gochart.Value{
			Value: float64(s.Count),
			Label: fmt.Sprintf("%s %.1f%%", s.Label, s.Share*100),
			Style: gochart.Style{FillColor: sliceColor(s), StrokeColor: gochart.ColorWhite},
		})
	}
	if len(values) == 0 {
		values = append(values, gochart.Value{
			Value: 1,
			Label: "No launches",
			Style: gochart.Style{FillColor: emptyColor, StrokeColor: gochart.ColorWhite},
		})
	}

	pie := gochart.PieChart{
		Title:  spec.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	// A lone value is drawn as a circle styled only by SliceStyle.
	if len(values) == 1 {
		pie.SliceStyle = values[0].Style
	}
	if err := pie.Render(opts.Format.provider(), w); err != nil {
		return fmt.Errorf("render proportion chart: %w", err)
	}
	return nil
}

// RenderScatter draws spec as a scatter plot of payload mass against
// outcome, coloring points by flight number.
func RenderScatter(w io.Writer, spec ScatterSpec, opts RenderOptions) error {
	opts = opts.withDefaults()

	xs := make([]float64, 0, len(spec.Points)+1)
	ys := make([]float64, 0, len(spec.Points)+1)
	for _, p := range spec.Points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	xMin, xMax := 0.0, emptyMaxPayload
	if len(xs) > 0 {
		xMin, xMax = paddedRange(xs)
	}

	style := gochart.Style{
		StrokeWidth:      gochart.Disabled,
		DotWidth:         5,
		DotColorProvider: flightColors(spec.Points),
	}
	switch len(xs) {
	case 0:
		// go-chart needs a visible series; plot a transparent one.
		xs, ys = []float64{xMin, xMax}, []float64{0, 1}
		style = gochart.Style{StrokeWidth: gochart.Disabled, StrokeColor: drawing.ColorTransparent}
	case 1:
		// A series needs two values to establish its range.
		xs, ys = append(xs, xs[0]), append(ys, ys[0])
	}

	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:  "Payload Mass (kg)",
			Range: &gochart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:  "Class",
			Range: &gochart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []gochart.Tick{
				{Value: 0, Label: "Failure"},
				{Value: 1, Label: "Success"},
			},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Launches",
				XValues: xs,
				YValues: ys,
				Style:   style,
			},
		},
	}
	if err := ch.Render(opts.Format.provider(), w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

// paddedRange returns the span of xs widened by 5% on each side, never
// below zero, and never of zero width.
func paddedRange(xs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 100)
	}
	return math.Max(lo-pad, 0), hi + pad
}

func flightColors(points []Point) gochart.DotColorProvider {
	if len(points) == 0 {
		return nil
	}
	lo, hi := points[0].FlightNumber, points[0].FlightNumber
	for _, p := range points {
		lo = min(lo, p.FlightNumber)
		hi = max(hi, p.FlightNumber)
	}
	if hi == lo {
		hi = lo + 1
	}
	return func(_, _ gochart.Range, index int, _, _ float64) drawing.Color {
		// Padded single-point series repeat the last point.
		if index >= len(points) {
			index = len(points) - 1
		}
		return gochart.Viridis(float64(points[index].FlightNumber), float64(lo), float64(hi))
	}
}
