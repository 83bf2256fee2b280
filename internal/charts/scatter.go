package charts

import (
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// ScatterTitle is the title of the user scatter plot.
const ScatterTitle = "Scatter Plot of Monthly Water Consumption by User ID and Area Code"

// ScatterPoint is one reading positioned by user. DeviceID is the hover detail.
type ScatterPoint struct {
	UserID   string  `json:"user_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"monthly_water_consumption"`
	AreaCode string  `json:"area_code"`
	DeviceID string  `json:"device_id"`
	Size     float64 `json:"size"`
}

// ScatterData holds the points and, when user ids are not numeric, the
// category labels of the x axis.
type ScatterData struct {
	AreaCodes []string       `json:"area_codes"`
	Points    []ScatterPoint `json:"points"`
	XLabels   []string       `json:"x_labels,omitempty"`
}

const (
	minMarker = 3.0
	maxMarker = 14.0
)

// Scatter places every reading at (User_ID, Monthly_Water_Consumption) with a
// marker size proportional to the consumption.
func Scatter(t *dataset.Table) ScatterData {
	var d ScatterData
	if t.Len() == 0 {
		return d
	}
	numeric := true
	for _, r := range t.Rows {
		if _, err := strconv.ParseFloat(r.UserID, 64); err != nil {
			numeric = false
			break
		}
	}
	users := map[string]int{}
	if !numeric {
		d.XLabels = t.Distinct(func(r dataset.Reading) string { return r.UserID })
		for i, u := range d.XLabels {
			users[u] = i
		}
	}
	d.AreaCodes = t.Distinct(func(r dataset.Reading) string { return r.AreaCode })
	peak := 0.0
	for _, r := range t.Rows {
		peak = math.Max(peak, math.Abs(r.Monthly))
	}
	for _, r := range t.Rows {
		x := float64(users[r.UserID])
		if numeric {
			x, _ = strconv.ParseFloat(r.UserID, 64)
		}
		size := minMarker
		if peak > 0 {
			size += (maxMarker - minMarker) * math.Abs(r.Monthly) / peak
		}
		d.Points = append(d.Points, ScatterPoint{
			UserID:   r.UserID,
			X:        x,
			Y:        r.Monthly,
			AreaCode: r.AreaCode,
			DeviceID: r.DeviceID,
			Size:     size,
		})
	}
	return d
}

func drawScatter(t *dataset.Table, opt Options, f Format, w io.Writer) error {
	d := Scatter(t)
	xs := make([][]float64, len(d.AreaCodes))
	ys := make([][]float64, len(d.AreaCodes))
	sizes := make([][]float64, len(d.AreaCodes))
	area := make(map[string]int, len(d.AreaCodes))
	for i, a := range d.AreaCodes {
		area[a] = i
	}
	allX := make([]float64, 0, len(d.Points))
	allY := make([]float64, 0, len(d.Points))
	for _, p := range d.Points {
		i := area[p.AreaCode]
		xs[i] = append(xs[i], p.X)
		ys[i] = append(ys[i], p.Y)
		sizes[i] = append(sizes[i], p.Size)
		allX = append(allX, p.X)
		allY = append(allY, p.Y)
	}

	var series []chart.Series
	for i, a := range d.AreaCodes {
		sz := sizes[i]
		series = append(series, chart.ContinuousSeries{
			Name:    a,
			XValues: xs[i],
			YValues: ys[i],
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				StrokeColor: colorAt(i),
				DotColor:    colorAt(i).WithAlpha(200),
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					return sz[index]
				},
			},
		})
	}

	xlo, xhi := padRange(seriesRange(allX))
	xlo, xhi = xlo-0.5, xhi+0.5
	ylo, yhi := padRange(seriesRange(allY))
	ylo = math.Min(0, ylo)
	yhi += 0.08 * (yhi - ylo)
	xAxis := chart.XAxis{
		Name:  "User_ID",
		Range: &chart.ContinuousRange{Min: xlo, Max: xhi},
	}
	if len(d.XLabels) > 0 {
		var ticks []chart.Tick
		for i, l := range d.XLabels {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
		}
		xAxis.Ticks = edgeTicks(ticks, xlo, xhi)
	} else {
		xAxis.ValueFormatter = tickFormatter
	}
	ch := chart.Chart{
		Title:      ScatterTitle,
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Name:           "Monthly_Water_Consumption",
			Range:          &chart.ContinuousRange{Min: ylo, Max: yhi},
			ValueFormatter: tickFormatter,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(f.provider(), w)
}
