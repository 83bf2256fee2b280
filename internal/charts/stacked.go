package charts

import (
	"io"
	"sort"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// StackedTitle is the title of the stacked bar chart.
const StackedTitle = "Monthly Water Consumption Breakdown by Area Code"

// StackedSegment is the total of one area code within a month.
type StackedSegment struct {
	AreaCode string  `json:"area_code"`
	Value    float64 `json:"monthly_water_consumption"`
}

// StackedBar is one month with a segment per area code present in it.
type StackedBar struct {
	Month    int              `json:"month"`
	Segments []StackedSegment `json:"segments"`
}

// StackedData sums Monthly_Water_Consumption by (Month, Area_Code).
type StackedData struct {
	AreaCodes []string     `json:"area_codes"`
	Bars      []StackedBar `json:"bars"`
}

// Total is the height of the bar.
func (b StackedBar) Total() float64 {
	var s float64
	for _, seg := range b.Segments {
		s += seg.Value
	}
	return s
}

// Stacked groups monthly consumption by calendar month and area code.
func Stacked(t *dataset.Table) StackedData {
	type key struct {
		month int
		area  string
	}
	sums := make(map[key]float64)
	months := make(map[int]bool)
	areas := make(map[string]bool)
	if t != nil {
		for _, r := range t.Rows {
			sums[key{r.Month, r.AreaCode}] += r.Monthly
			months[r.Month] = true
			areas[r.AreaCode] = true
		}
	}
	var d StackedData
	for a := range areas {
		d.AreaCodes = append(d.AreaCodes, a)
	}
	sort.Strings(d.AreaCodes)
	ms := make([]int, 0, len(months))
	for m := range months {
		ms = append(ms, m)
	}
	sort.Ints(ms)
	for _, m := range ms {
		bar := StackedBar{Month: m}
		for _, a := range d.AreaCodes {
			if v, ok := sums[key{m, a}]; ok {
				bar.Segments = append(bar.Segments, StackedSegment{AreaCode: a, Value: v})
			}
		}
		d.Bars = append(d.Bars, bar)
	}
	return d
}

func drawStacked(t *dataset.Table, opt Options, f Format, w io.Writer) error {
	d := Stacked(t)
	c, err := newCanvas(f, opt.Width, opt.Height, StackedTitle)
	if err != nil {
		return err
	}
	c.plot.Right -= 100 // legend
	top := 0.0
	for _, b := range d.Bars {
		if v := b.Total(); v > top {
			top = v
		}
	}
	c.setRange(-0.5, float64(len(d.Bars))-0.5, 0, top*1.05)
	c.yAxis("Monthly_Water_Consumption", niceTicks(0, top*1.05, 6))

	colors := make(map[string]drawing.Color, len(d.AreaCodes))
	legend := make([]drawing.Color, len(d.AreaCodes))
	for i, a := range d.AreaCodes {
		colors[a] = colorAt(i)
		legend[i] = colorAt(i)
	}
	labels := make([]string, len(d.Bars))
	for i, b := range d.Bars {
		labels[i] = strconv.Itoa(b.Month)
		x := float64(i)
		base := 0.0
		for _, seg := range b.Segments {
			col := colors[seg.AreaCode]
			c.rect(x-0.4, base, x+0.4, base+seg.Value, chart.Style{FillColor: col, StrokeColor: drawing.ColorWhite, StrokeWidth: 1})
			if c.py(base)-c.py(base+seg.Value) > 14 {
				c.label(formatTick(seg.Value), c.px(x), c.py(base+seg.Value/2), 8, drawing.ColorWhite, alignCenter)
			}
			base += seg.Value
		}
	}
	c.xCategories("Month", labels)
	c.plot.Right += 100
	c.legend(d.AreaCodes, legend)
	return c.save(w)
}
