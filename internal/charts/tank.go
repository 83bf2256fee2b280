package charts

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// TankTitle is the title of the tank schematic.
const TankTitle = "Water Tank Level with Distribution to Areas, Devices, and Users"

// tank geometry in schematic units; the level is added to tankBottom.
const (
	tankLeft   = 1.0
	tankRight  = 3.0
	tankBottom = 120.0
	tankTop    = 220.0
	junctionY  = 80.0
	areaY      = 60.0
)

// TankAlert is a dashed alert line drawn inside the tank.
type TankAlert struct {
	Level float64 `json:"level"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// TankSegment is one pipe of the distribution network.
type TankSegment struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Width float64 `json:"width"`
}

// TankLabel is a text annotation placed at X, Y.
type TankLabel struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
	Kind string  `json:"kind"` // area|user
}

// TankData describes the static tank schematic. It does not depend on the readings.
type TankData struct {
	Level  float64       `json:"level"`
	Alerts []TankAlert   `json:"alerts"`
	Pipes  []TankSegment `json:"pipes"`
	Labels []TankLabel   `json:"labels"`
}

var alertColors = []struct {
	level float64
	name  string
	hex   string
}{
	{25, "green", "008000"},
	{50, "yellow", "FFD700"},
	{75, "orange", "FFA500"},
	{100, "red", "FF0000"},
}

// Tank builds the schematic for a fill level in percent, clamped to 0..100.
func Tank(level float64) TankData {
	if level < 0 {
		level = 0
	} else if level > 100 {
		level = 100
	}
	d := TankData{Level: level}
	for _, a := range alertColors {
		d.Alerts = append(d.Alerts, TankAlert{Level: a.level, Color: a.name, Label: fmt.Sprintf("%.0f%% Alert", a.level)})
	}
	d.Pipes = []TankSegment{
		{X0: 2, Y0: tankBottom, X1: 2, Y1: junctionY, Width: 3},
		{X0: 2, Y0: junctionY, X1: tankLeft, Y1: areaY, Width: 3},
		{X0: 2, Y0: junctionY, X1: tankRight, Y1: areaY, Width: 3},
	}
	d.Labels = []TankLabel{
		{X: 0.5, Y: areaY, Text: "Area 1 Device 1", Kind: "area"},
		{X: 3.5, Y: areaY, Text: "Area 2 Device 2", Kind: "area"},
	}
	for i := 0; i < 10; i++ {
		side, x, lx := tankLeft, 0.5, 0.3
		if i >= 5 {
			side, x, lx = tankRight, 3.5, 3.7
		}
		y := 50 - float64(i%5)*10
		d.Pipes = append(d.Pipes, TankSegment{X0: side, Y0: areaY, X1: x, Y1: y, Width: 2})
		d.Labels = append(d.Labels, TankLabel{X: lx, Y: y, Text: fmt.Sprintf("User %d", i+1), Kind: "user"})
	}
	return d
}

func drawTank(_ *dataset.Table, opt Options, f Format, w io.Writer) error {
	d := Tank(opt.TankLevel)
	size := opt.Height
	if opt.Width < size {
		size = opt.Width
	}
	c, err := newCanvas(f, size, size, TankTitle)
	if err != nil {
		return err
	}
	c.setRange(0, 4.2, 0, 250)
	c.yAxis("Water Level (%)", niceTicks(0, 250, 5))

	blue := drawing.ColorFromHex("0000FF")
	c.rect(tankLeft, tankBottom, tankRight, tankTop, chart.Style{
		FillColor: drawing.ColorFromHex("ADD8E6"), StrokeColor: blue, StrokeWidth: 3,
	})
	if d.Level > 0 {
		c.rect(tankLeft, tankBottom, tankRight, tankBottom+d.Level, chart.Style{
			FillColor: blue, StrokeColor: blue, StrokeWidth: 1,
		})
	}
	for _, a := range alertColors {
		col := drawing.ColorFromHex(a.hex)
		y := tankBottom + a.level
		c.line(chart.Style{StrokeColor: col, StrokeWidth: 2, StrokeDashArray: []float64{6, 4}}, tankLeft, y, tankRight, y)
		c.label(fmt.Sprintf("%.0f%% Alert", a.level), c.px(3.2), c.py(y), 9, col, alignCenter)
	}
	gray := drawing.ColorFromHex("808080")
	for _, p := range d.Pipes {
		c.line(chart.Style{StrokeColor: gray, StrokeWidth: p.Width}, p.X0, p.Y0, p.X1, p.Y1)
	}
	purple := drawing.ColorFromHex("800080")
	for _, l := range d.Labels {
		col := drawing.ColorBlack
		if l.Kind == "user" {
			col = purple
		}
		c.label(l.Text, c.px(l.X), c.py(l.Y), 9, col, alignCenter)
	}
	return c.save(w)
}
