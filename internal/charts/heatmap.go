package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/waterdash/internal/analysis"
	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// HeatmapTitle is the title of the correlation heatmap.
const HeatmapTitle = "Correlation Heatmap"

// Heatmap correlates the four consumption columns.
func Heatmap(t *dataset.Table) *analysis.CorrMatrix {
	cols := make([][]float64, len(dataset.ConsumptionColumns))
	for i, name := range dataset.ConsumptionColumns {
		cols[i] = analysis.Column(t, name)
	}
	return analysis.Pearson(dataset.ConsumptionColumns, cols)
}

// heatStops is a sequential scale from dark purple to yellow.
var heatStops = []drawing.Color{
	drawing.ColorFromHex("0D0887"),
	drawing.ColorFromHex("7E03A8"),
	drawing.ColorFromHex("CC4778"),
	drawing.ColorFromHex("F89540"),
	drawing.ColorFromHex("F0F921"),
}

// heatColor maps u in [0,1] onto heatStops.
func heatColor(u float64) drawing.Color {
	if math.IsNaN(u) || u <= 0 {
		return heatStops[0]
	}
	if u >= 1 {
		return heatStops[len(heatStops)-1]
	}
	pos := u * float64(len(heatStops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := heatStops[i], heatStops[i+1]
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func drawHeatmap(t *dataset.Table, opt Options, f Format, w io.Writer) error {
	m := Heatmap(t)
	n := len(m.Columns)
	c, err := newCanvas(f, opt.Width, opt.Height, HeatmapTitle)
	if err != nil {
		return err
	}
	c.plot.Left = 180
	c.plot.Bottom = opt.Height - 90
	c.plot.Right = c.plot.Left + c.plot.Height()
	if c.plot.Right > opt.Width-90 {
		c.plot.Right = opt.Width - 90
	}
	c.setRange(0, float64(n), 0, float64(n))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		for _, v := range row {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	span := hi - lo
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.Values[i][j]
			u := 1.0
			if span > 0 {
				u = (v - lo) / span
			}
			col := heatColor(u)
			top := float64(n - i)
			c.rect(float64(j), top-1, float64(j+1), top, chart.Style{FillColor: col, StrokeColor: drawing.ColorWhite, StrokeWidth: 1})
			txt := drawing.ColorWhite
			if u > 0.6 {
				txt = drawing.ColorBlack
			}
			c.label(fmt.Sprintf("%.3g", v), c.px(float64(j)+0.5), c.py(top-0.5), 10, txt, alignCenter)
		}
		c.label(m.Columns[i], c.plot.Left-6, c.py(float64(n-i)-0.5), 9, colorAxis, alignRight)
	}
	for j, name := range m.Columns {
		st := c.text
		st.FontSize = 9
		st.FontColor = colorAxis
		st.TextRotationDegrees = 30
		chart.Draw.Text(c.r, name, c.px(float64(j)+0.3), c.plot.Bottom+14, st)
	}

	// colour bar
	barL := c.plot.Right + 24
	steps := 20
	for k := 0; k < steps; k++ {
		y0 := c.plot.Bottom - k*c.plot.Height()/steps
		y1 := c.plot.Bottom - (k+1)*c.plot.Height()/steps
		col := heatColor(float64(k) / float64(steps-1))
		chart.Draw.Box(c.r, chart.Box{Top: y1, Left: barL, Right: barL + 14, Bottom: y0}, chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1})
	}
	c.label(fmt.Sprintf("%.2f", hi), barL+18, c.plot.Top, 9, colorAxis, alignLeft)
	c.label(fmt.Sprintf("%.2f", lo), barL+18, c.plot.Bottom, 9, colorAxis, alignLeft)
	return c.save(w)
}
