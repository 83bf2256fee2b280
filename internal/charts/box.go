package charts

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/waterdash/internal/analysis"
	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// BoxTitle is the title of the box plot.
const BoxTitle = "Box Plot of Daily Water Consumption by Usage Type"

// BoxGroup is the distribution summary of one Water_Usage category.
type BoxGroup struct {
	Category string            `json:"water_usage"`
	Stats    analysis.BoxStats `json:"stats"`
}

// BoxPlotData holds one box per category in order of first appearance.
type BoxPlotData struct {
	Groups []BoxGroup `json:"groups"`
}

// dailyByUsage splits Daily_Water_Consumption by Water_Usage, keeping the
// category order of the table.
func dailyByUsage(t *dataset.Table) (names []string, values [][]float64) {
	idx := make(map[string]int)
	if t == nil {
		return nil, nil
	}
	for _, r := range t.Rows {
		i, ok := idx[r.WaterUsage]
		if !ok {
			i = len(names)
			idx[r.WaterUsage] = i
			names = append(names, r.WaterUsage)
			values = append(values, nil)
		}
		values[i] = append(values[i], r.Daily)
	}
	return names, values
}

// BoxPlot computes the box statistics of daily consumption per usage type.
func BoxPlot(t *dataset.Table) BoxPlotData {
	names, values := dailyByUsage(t)
	d := BoxPlotData{}
	for i, n := range names {
		d.Groups = append(d.Groups, BoxGroup{Category: n, Stats: analysis.Box(values[i])})
	}
	return d
}

func drawBox(t *dataset.Table, opt Options, f Format, w io.Writer) error {
	d := BoxPlot(t)
	c, err := newCanvas(f, opt.Width, opt.Height, BoxTitle)
	if err != nil {
		return err
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range d.Groups {
		lo = math.Min(lo, g.Stats.Min)
		hi = math.Max(hi, g.Stats.Max)
	}
	c.setRange(-0.5, float64(len(d.Groups))-0.5, lo, hi)
	c.yAxis("Daily_Water_Consumption", niceTicks(c.yr.Min, c.yr.Max, 6))

	labels := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		labels[i] = g.Category
		drawBoxGlyph(c, float64(i), 0.25, g.Stats, colorAt(0), true)
	}
	c.xCategories("Water_Usage", labels)
	return c.save(w)
}

// drawBoxGlyph draws a box with whiskers centred on x with half-width hw.
func drawBoxGlyph(c *canvas, x, hw float64, s analysis.BoxStats, col drawing.Color, outliers bool) {
	stroke := chart.Style{StrokeColor: col, StrokeWidth: 2}
	c.rect(x-hw, s.Q1, x+hw, s.Q3, chart.Style{FillColor: col.WithAlpha(80), StrokeColor: col, StrokeWidth: 2})
	c.line(stroke, x-hw, s.Median, x+hw, s.Median)
	c.line(stroke, x, s.Q3, x, s.WhiskerHigh)
	c.line(stroke, x, s.Q1, x, s.WhiskerLow)
	c.line(stroke, x-hw/2, s.WhiskerHigh, x+hw/2, s.WhiskerHigh)
	c.line(stroke, x-hw/2, s.WhiskerLow, x+hw/2, s.WhiskerLow)
	if outliers {
		for _, v := range s.Outliers {
			c.dot(x, v, 3, col)
		}
	}
}
