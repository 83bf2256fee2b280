package charts

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/waterdash/internal/analysis"
	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// ViolinTitle is the title of the violin plot.
const ViolinTitle = "Violin Plot of Daily Water Consumption by Usage Type"

const kdePoints = 64

// ViolinGroup is the density outline, inner box and raw points of one category.
type ViolinGroup struct {
	Category string            `json:"water_usage"`
	Values   []float64         `json:"values"` // density sample positions
	Density  []float64         `json:"density"`
	Box      analysis.BoxStats `json:"box"`
	Points   []float64         `json:"points"`
}

// ViolinData holds one violin per Water_Usage category.
type ViolinData struct {
	Groups []ViolinGroup `json:"groups"`
}

// Violin estimates the daily consumption density per usage type.
func Violin(t *dataset.Table) ViolinData {
	names, values := dailyByUsage(t)
	var d ViolinData
	for i, n := range names {
		xs, ys := analysis.KDE(values[i], kdePoints)
		d.Groups = append(d.Groups, ViolinGroup{
			Category: n,
			Values:   xs,
			Density:  ys,
			Box:      analysis.Box(values[i]),
			Points:   values[i],
		})
	}
	return d
}

func drawViolin(t *dataset.Table, opt Options, f Format, w io.Writer) error {
	d := Violin(t)
	c, err := newCanvas(f, opt.Width, opt.Height, ViolinTitle)
	if err != nil {
		return err
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	peak := 0.0
	for _, g := range d.Groups {
		l, h := seriesRange(g.Values, g.Points)
		lo, hi = math.Min(lo, l), math.Max(hi, h)
		for _, v := range g.Density {
			peak = math.Max(peak, v)
		}
	}
	c.setRange(-0.5, float64(len(d.Groups))-0.5, lo, hi)
	c.yAxis("Daily_Water_Consumption", niceTicks(c.yr.Min, c.yr.Max, 6))

	labels := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		labels[i] = g.Category
		x := float64(i)
		col := colorAt(i)
		if len(g.Density) > 0 && peak > 0 {
			n := len(g.Values)
			xs := make([]float64, 0, 2*n)
			ys := make([]float64, 0, 2*n)
			for k := 0; k < n; k++ {
				xs = append(xs, x+0.35*g.Density[k]/peak)
				ys = append(ys, g.Values[k])
			}
			for k := n - 1; k >= 0; k-- {
				xs = append(xs, x-0.35*g.Density[k]/peak)
				ys = append(ys, g.Values[k])
			}
			c.polygon(chart.Style{FillColor: col.WithAlpha(90), StrokeColor: col, StrokeWidth: 2}, xs, ys)
		} else {
			c.line(chart.Style{StrokeColor: col, StrokeWidth: 2}, x-0.35, g.Box.Median, x+0.35, g.Box.Median)
		}
		drawBoxGlyph(c, x, 0.04, g.Box, col, false)
		for k, v := range g.Points {
			c.dot(x-0.45+0.08*jitter(k), v, 2, col)
		}
	}
	c.xCategories("Water_Usage", labels)
	return c.save(w)
}

// jitter is a deterministic offset in [0,1) for the k-th point.
func jitter(k int) float64 {
	_, frac := math.Modf(float64(k+1) * 0.6180339887)
	return frac
}
