// Package charts turns a filtered readings table into the dashboard's charts.
// Every chart is a pure data step (exposed as JSON by the API) followed by a
// drawing step that writes PNG or SVG through go-chart renderers.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// ErrUnknownChart is returned for a chart name that is not registered.
var ErrUnknownChart = errors.New("unknown chart")

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts png or svg (case-insensitive); empty means png.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported image format %q (use png or svg)", s)
}

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Options sizes and parameterizes the charts.
type Options struct {
	Width         int
	Height        int
	RollingWindow int
	// TankLevel is the fill of the tank schematic in percent.
	TankLevel float64
	// TableRows caps the rows of the tabular display.
	TableRows int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{Width: 900, Height: 500, RollingWindow: 12, TankLevel: 60, TableRows: 200}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.RollingWindow <= 0 {
		o.RollingWindow = d.RollingWindow
	}
	if o.TableRows <= 0 {
		o.TableRows = d.TableRows
	}
	return o
}

type entry struct {
	title string
	data  func(t *dataset.Table, opt Options) any
	draw  func(t *dataset.Table, opt Options, f Format, w io.Writer) error
}

var registry = map[string]entry{}

// order is the page order of the image charts.
var order []string

func register(name string, s entry) {
	if _, dup := registry[name]; dup {
		panic("charts: duplicate chart " + name)
	}
	registry[name] = s
	order = append(order, name)
}

func init() {
	register("tank", entry{title: TankTitle, data: func(_ *dataset.Table, o Options) any { return Tank(o.TankLevel) }, draw: drawTank})
	register("trend", entry{title: TrendTitle, data: func(t *dataset.Table, o Options) any { return Trend(t, o.RollingWindow) }, draw: drawTrend})
	register("box", entry{title: BoxTitle, data: func(t *dataset.Table, _ Options) any { return BoxPlot(t) }, draw: drawBox})
	register("heatmap", entry{title: HeatmapTitle, data: func(t *dataset.Table, _ Options) any { return Heatmap(t) }, draw: drawHeatmap})
	register("violin", entry{title: ViolinTitle, data: func(t *dataset.Table, _ Options) any { return Violin(t) }, draw: drawViolin})
	register("stacked", entry{title: StackedTitle, data: func(t *dataset.Table, _ Options) any { return Stacked(t) }, draw: drawStacked})
	register("scatter", entry{title: ScatterTitle, data: func(t *dataset.Table, _ Options) any { return Scatter(t) }, draw: drawScatter})
}

// Names lists the image charts in page order.
func Names() []string { return append([]string(nil), order...) }

// Title returns the display title of a chart.
func Title(name string) (string, error) {
	s, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownChart, name, strings.Join(sortedNames(), ", "))
	}
	return s.title, nil
}

func sortedNames() []string {
	out := Names()
	sort.Strings(out)
	return out
}

// Data computes the data behind a chart. "table" is accepted as well and
// returns the tabular view.
func Data(name string, t *dataset.Table, opt Options) (any, error) {
	opt = opt.withDefaults()
	if name == "table" {
		return TableView(t, opt.TableRows), nil
	}
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return s.data(t, opt), nil
}

// Write renders a chart to w. Empty tables produce a "No data" placeholder.
func Write(w io.Writer, name string, t *dataset.Table, opt Options, f Format) error {
	opt = opt.withDefaults()
	s, ok := registry[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	if t.Len() == 0 && name != "tank" {
		return placeholder(w, s.title, opt, f)
	}
	if err := s.draw(t, opt, f, w); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Render is Write into a byte slice.
func Render(name string, t *dataset.Table, opt Options, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, name, t, opt, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
