package charts

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/waterdash/internal/analysis"
	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// TrendTitle is the title of the monthly trend chart.
const TrendTitle = "Monthly Water Consumption Trend with Trend Line"

// TrendPoint is the monthly total of one (year, month).
type TrendPoint struct {
	Year    int      `json:"year"`
	Month   int      `json:"month"`
	Label   string   `json:"label"`
	Total   float64  `json:"monthly_water_consumption"`
	Rolling *float64 `json:"trend,omitempty"` // nil until the window fills
}

// TrendData is the monthly series with its rolling mean.
type TrendData struct {
	Window int          `json:"window"`
	Points []TrendPoint `json:"points"`
}

// Trend sums Monthly_Water_Consumption per (Year, Month) in chronological order
// and attaches the trailing rolling mean over window points.
func Trend(t *dataset.Table, window int) TrendData {
	type ym struct{ y, m int }
	sums := make(map[ym]float64)
	if t != nil {
		for _, r := range t.Rows {
			sums[ym{r.Year, r.Month}] += r.Monthly
		}
	}
	keys := make([]ym, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].y != keys[j].y {
			return keys[i].y < keys[j].y
		}
		return keys[i].m < keys[j].m
	})
	d := TrendData{Window: window}
	totals := make([]float64, len(keys))
	for i, k := range keys {
		totals[i] = sums[k]
	}
	rolling := analysis.RollingMean(totals, window)
	for i, k := range keys {
		p := TrendPoint{Year: k.y, Month: k.m, Label: fmt.Sprintf("%04d-%02d", k.y, k.m), Total: totals[i]}
		if v := rolling[i]; !math.IsNaN(v) {
			p.Rolling = &v
		}
		d.Points = append(d.Points, p)
	}
	return d
}

func drawTrend(t *dataset.Table, opt Options, f Format, w io.Writer) error {
	d := Trend(t, opt.RollingWindow)
	n := len(d.Points)
	xs := make([]float64, n)
	ys := make([]float64, n)
	var rx, ry []float64
	for i, p := range d.Points {
		xs[i] = float64(i)
		ys[i] = p.Total
		if p.Rolling != nil {
			rx = append(rx, float64(i))
			ry = append(ry, *p.Rolling)
		}
	}

	// label every step-th month so ticks do not collide
	step := 1 + n/12
	var ticks []chart.Tick
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: d.Points[i].Label})
	}
	lo, hi := padRange(seriesRange(ys, ry))
	lo = math.Min(lo, 0)
	hi += 0.05 * (hi - lo)
	xlo, xhi := -0.5, float64(n)-0.5

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Monthly Consumption",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: colorAt(0),
				StrokeWidth: 2,
				DotColor:    colorAt(0),
				DotWidth:    3,
			},
		},
	}
	if len(rx) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Trend Line",
			XValues: rx,
			YValues: ry,
			Style:   chart.Style{StrokeColor: drawing.ColorRed, StrokeWidth: 2},
		})
	}

	ch := chart.Chart{
		Title:      TrendTitle,
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Month",
			Range: &chart.ContinuousRange{Min: xlo, Max: xhi},
			Ticks: edgeTicks(ticks, xlo, xhi),
		},
		YAxis: chart.YAxis{
			Name:           "Monthly Water Consumption (L)",
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: tickFormatter,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(f.provider(), w)
}
