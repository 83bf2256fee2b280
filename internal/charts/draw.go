package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette is the qualitative colour sequence assigned to categories in order.
var palette = []drawing.Color{
	drawing.ColorFromHex("636EFA"),
	drawing.ColorFromHex("EF553B"),
	drawing.ColorFromHex("00CC96"),
	drawing.ColorFromHex("AB63FA"),
	drawing.ColorFromHex("FFA15A"),
	drawing.ColorFromHex("19D3F3"),
	drawing.ColorFromHex("FF6692"),
	drawing.ColorFromHex("B6E880"),
	drawing.ColorFromHex("FF97FF"),
	drawing.ColorFromHex("FECB52"),
}

func colorAt(i int) drawing.Color { return palette[i%len(palette)] }

var (
	colorText = drawing.ColorFromHex("2A3F5F")
	colorGrid = drawing.ColorFromHex("E5ECF6")
	colorAxis = drawing.ColorFromHex("444444")
)

// canvas draws free-form charts directly on a go-chart renderer. Data
// coordinates map onto the plot box through two continuous ranges.
type canvas struct {
	r      chart.Renderer
	text   chart.Style
	width  int
	height int
	plot   chart.Box
	xr, yr chart.ContinuousRange
}

func newCanvas(f Format, width, height int, title string) (*canvas, error) {
	r, err := f.provider()(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r.SetDPI(chart.DefaultDPI)
	c := &canvas{
		r:      r,
		text:   chart.Style{Font: font, FontSize: chart.DefaultFontSize, FontColor: colorText},
		width:  width,
		height: height,
		plot:   chart.Box{Top: 56, Left: 84, Right: width - 32, Bottom: height - 56},
	}
	chart.Draw.Box(r, chart.Box{Top: 0, Left: 0, Right: width, Bottom: height}, chart.Style{
		FillColor:   drawing.ColorWhite,
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 1,
	})
	if title != "" {
		c.label(title, width/2, 28, 15, colorText, alignCenter)
	}
	return c, nil
}

// setRange maps the data rectangle [x0,x1]x[y0,y1] onto the plot box.
func (c *canvas) setRange(x0, x1, y0, y1 float64) {
	x0, x1 = padRange(x0, x1)
	y0, y1 = padRange(y0, y1)
	c.xr = chart.ContinuousRange{Min: x0, Max: x1, Domain: c.plot.Width()}
	c.yr = chart.ContinuousRange{Min: y0, Max: y1, Domain: c.plot.Height()}
}

// edgeTicks brackets ticks with unlabeled ticks at lo and hi. go-chart takes
// the axis range from the ticks whenever any are set, so a single labeled tick
// would collapse the range to zero width.
func edgeTicks(ticks []chart.Tick, lo, hi float64) []chart.Tick {
	out := make([]chart.Tick, 0, len(ticks)+2)
	out = append(out, chart.Tick{Value: lo})
	out = append(out, ticks...)
	return append(out, chart.Tick{Value: hi})
}

// padRange widens a degenerate range so translation never divides by zero.
func padRange(lo, hi float64) (float64, float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 1
	}
	if hi > lo {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func (c *canvas) px(x float64) int { return c.plot.Left + c.xr.Translate(x) }
func (c *canvas) py(y float64) int { return c.plot.Bottom - c.yr.Translate(y) }

// rect fills and strokes a data-space rectangle.
func (c *canvas) rect(x0, y0, x1, y1 float64, st chart.Style) {
	l, r := c.px(math.Min(x0, x1)), c.px(math.Max(x0, x1))
	t, b := c.py(math.Max(y0, y1)), c.py(math.Min(y0, y1))
	chart.Draw.Box(c.r, chart.Box{Top: t, Left: l, Right: r, Bottom: b}, st)
}

// line strokes a polyline through data-space points given as x,y pairs.
func (c *canvas) line(st chart.Style, xy ...float64) {
	if len(xy) < 4 {
		return
	}
	st.GetStrokeOptions().WriteDrawingOptionsToRenderer(c.r)
	defer c.r.ResetStyle()
	c.r.MoveTo(c.px(xy[0]), c.py(xy[1]))
	for i := 2; i+1 < len(xy); i += 2 {
		c.r.LineTo(c.px(xy[i]), c.py(xy[i+1]))
	}
	c.r.Stroke()
}

// polygon fills a closed data-space shape.
func (c *canvas) polygon(st chart.Style, xs, ys []float64) {
	if len(xs) < 3 || len(xs) != len(ys) {
		return
	}
	st.GetFillAndStrokeOptions().WriteDrawingOptionsToRenderer(c.r)
	defer c.r.ResetStyle()
	c.r.MoveTo(c.px(xs[0]), c.py(ys[0]))
	for i := 1; i < len(xs); i++ {
		c.r.LineTo(c.px(xs[i]), c.py(ys[i]))
	}
	c.r.Close()
	c.r.FillStroke()
}

func (c *canvas) dot(x, y, radius float64, col drawing.Color) {
	chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}.WriteDrawingOptionsToRenderer(c.r)
	defer c.r.ResetStyle()
	c.r.Circle(radius, c.px(x), c.py(y))
	c.r.FillStroke()
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// label draws text vertically centred on y with the given horizontal anchor.
func (c *canvas) label(s string, x, y int, size float64, col drawing.Color, a align) {
	st := c.text
	st.FontSize = size
	st.FontColor = col
	tb := chart.Draw.MeasureText(c.r, s, st)
	switch a {
	case alignCenter:
		x -= tb.Width() / 2
	case alignRight:
		x -= tb.Width()
	}
	chart.Draw.Text(c.r, s, x, y+tb.Height()/2, st)
}

// yAxis draws horizontal grid lines with labels and the rotated axis name.
func (c *canvas) yAxis(name string, ticks []float64) {
	grid := chart.Style{StrokeColor: colorGrid, StrokeWidth: 1}
	for _, v := range ticks {
		y := c.py(v)
		if y < c.plot.Top-1 || y > c.plot.Bottom+1 {
			continue
		}
		grid.WriteDrawingOptionsToRenderer(c.r)
		c.r.MoveTo(c.plot.Left, y)
		c.r.LineTo(c.plot.Right, y)
		c.r.Stroke()
		c.r.ResetStyle()
		c.label(formatTick(v), c.plot.Left-6, y, 9, colorAxis, alignRight)
	}
	if name != "" {
		st := c.text
		st.FontSize = 11
		st.TextRotationDegrees = 270
		tb := chart.Draw.MeasureText(c.r, name, c.text)
		chart.Draw.Text(c.r, name, 20, c.plot.Top+c.plot.Height()/2+tb.Width()/2, st)
	}
}

// xCategories labels evenly spaced category slots 0..n-1 under the plot.
func (c *canvas) xCategories(name string, labels []string) {
	for i, l := range labels {
		c.label(l, c.px(float64(i)), c.plot.Bottom+12, 9, colorAxis, alignCenter)
	}
	if name != "" {
		c.label(name, c.plot.Left+c.plot.Width()/2, c.plot.Bottom+34, 11, colorText, alignCenter)
	}
}

// legend lists names with colour swatches down the top right of the plot.
func (c *canvas) legend(names []string, colors []drawing.Color) {
	x := c.plot.Right - 110
	for i, n := range names {
		y := c.plot.Top + 8 + i*16
		chart.Draw.Box(c.r, chart.Box{Top: y - 5, Left: x, Right: x + 10, Bottom: y + 5}, chart.Style{
			FillColor: colors[i], StrokeColor: colors[i], StrokeWidth: 1,
		})
		c.label(n, x+16, y, 9, colorText, alignLeft)
	}
}

func (c *canvas) save(w io.Writer) error { return c.r.Save(w) }

// niceTicks returns about n round tick values covering [lo, hi].
func niceTicks(lo, hi float64, n int) []float64 {
	lo, hi = padRange(lo, hi)
	if n < 2 {
		n = 2
	}
	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		step = m * mag
		if step >= raw {
			break
		}
	}
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		out = append(out, v)
	}
	return out
}

func formatTick(v float64) string {
	a := math.Abs(v)
	switch {
	case a >= 1e6:
		return fmt.Sprintf("%.3gM", v/1e6)
	case a >= 1e4:
		return fmt.Sprintf("%.4gk", v/1e3)
	case a == math.Trunc(a):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.3g", v)
	}
}

// tickFormatter adapts formatTick to go-chart axes.
func tickFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return formatTick(f)
	}
	return fmt.Sprint(v)
}

func placeholder(w io.Writer, title string, opt Options, f Format) error {
	c, err := newCanvas(f, opt.Width, opt.Height, title)
	if err != nil {
		return err
	}
	c.label("No data", opt.Width/2, opt.Height/2, 14, colorAxis, alignCenter)
	return c.save(w)
}

// seriesRange returns bounds over values, ignoring NaN.
func seriesRange(values ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}
