package charts

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

var pngMagic = []byte("\x89PNG")

func smallOpts() Options {
	o := DefaultOptions()
	o.Width, o.Height = 480, 320
	return o
}

// edgeTables covers the filtered tables a dashboard user reaches routinely:
// nothing left, one row, one month and readings that are all zero.
func edgeTables() map[string]*dataset.Table {
	sample := dataset.Sample()
	var month, zeros, named []dataset.Reading
	for _, r := range sample.Rows {
		if r.Year == 2022 && r.Month == 3 {
			month = append(month, r)
		}
		z := r
		z.Hourly, z.Daily, z.Monthly, z.Yearly = 0, 0, 0, 0
		zeros = append(zeros, z)
	}
	one := sample.Rows[0]
	one.UserID = "U-1"
	named = append(named, one)
	return map[string]*dataset.Table{
		"sample":       sample,
		"empty":        sample.WithRows(nil),
		"single":       sample.WithRows(sample.Rows[:1]),
		"one month":    sample.WithRows(month),
		"zeros":        sample.WithRows(zeros),
		"single zero":  sample.WithRows(zeros[:1]),
		"named single": sample.WithRows(named),
	}
}

func TestRenderEveryChart(t *testing.T) {
	for label, tbl := range edgeTables() {
		for _, name := range Names() {
			b, err := Render(name, tbl, smallOpts(), PNG)
			if err != nil {
				t.Fatalf("%s/%s: %v", name, label, err)
			}
			if !bytes.HasPrefix(b, pngMagic) {
				t.Fatalf("%s/%s: not a PNG (%d bytes)", name, label, len(b))
			}
			b, err = Render(name, tbl, smallOpts(), SVG)
			if err != nil {
				t.Fatalf("%s/%s svg: %v", name, label, err)
			}
			if !strings.Contains(string(b), "<svg") {
				t.Fatalf("%s/%s: not an SVG", name, label)
			}
		}
	}
}

func TestTrendSingleMonth(t *testing.T) {
	tbl := edgeTables()["one month"]
	d := Trend(tbl, 12)
	if len(d.Points) != 1 || d.Points[0].Label != "2022-03" {
		t.Fatalf("points = %+v", d.Points)
	}
	var buf bytes.Buffer
	if err := Write(&buf, "trend", tbl, smallOpts(), PNG); err != nil {
		t.Fatalf("Write trend: %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	b, err := Render("box", dataset.Sample(), smallOpts(), SVG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(b), "<svg") {
		t.Fatalf("expected svg output, got %.40q", b)
	}
}

func TestUnknownChart(t *testing.T) {
	if _, err := Render("pie", dataset.Sample(), smallOpts(), PNG); !errors.Is(err, ErrUnknownChart) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Data("pie", dataset.Sample(), smallOpts()); !errors.Is(err, ErrUnknownChart) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PNG, "PNG": PNG, "svg": SVG} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatalf("gif should be rejected")
	}
}

func TestTrendRollingWindow(t *testing.T) {
	d := Trend(dataset.Sample(), 12)
	if len(d.Points) != 24 {
		t.Fatalf("points = %d", len(d.Points))
	}
	for i, p := range d.Points {
		if (p.Rolling == nil) != (i < 11) {
			t.Fatalf("point %d rolling = %v", i, p.Rolling)
		}
	}
	if d.Points[0].Label != "2022-01" || d.Points[23].Label != "2023-12" {
		t.Fatalf("labels = %s..%s", d.Points[0].Label, d.Points[23].Label)
	}
	var want float64
	for _, r := range dataset.Sample().Rows {
		if r.Year == 2022 && r.Month == 1 {
			want += r.Monthly
		}
	}
	if d.Points[0].Total != want {
		t.Fatalf("2022-01 total = %v, want %v", d.Points[0].Total, want)
	}
}

func TestBoxAndViolinKeepCategoryOrder(t *testing.T) {
	b := BoxPlot(dataset.Sample())
	if len(b.Groups) != 2 || b.Groups[0].Category != "Yes" || b.Groups[1].Category != "No" {
		t.Fatalf("groups = %+v", b.Groups)
	}
	v := Violin(dataset.Sample())
	if len(v.Groups) != 2 || len(v.Groups[0].Density) != kdePoints {
		t.Fatalf("violin = %d groups", len(v.Groups))
	}
	if v.Groups[0].Box.N+v.Groups[1].Box.N != 240 {
		t.Fatalf("box counts do not cover the table")
	}
}

func TestStackedSumsByMonthAndArea(t *testing.T) {
	tbl := dataset.Sample()
	d := Stacked(tbl)
	if len(d.Bars) != 12 || len(d.AreaCodes) != 2 {
		t.Fatalf("bars=%d areas=%v", len(d.Bars), d.AreaCodes)
	}
	var total, want float64
	for _, b := range d.Bars {
		total += b.Total()
	}
	for _, r := range tbl.Rows {
		want += r.Monthly
	}
	if diff := total - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("stacked total = %v, want %v", total, want)
	}
}

func TestScatterHoverAndSize(t *testing.T) {
	d := Scatter(dataset.Sample())
	if len(d.Points) != 240 || len(d.XLabels) != 0 {
		t.Fatalf("points=%d labels=%v", len(d.Points), d.XLabels)
	}
	for _, p := range d.Points {
		if p.DeviceID == "" || p.Size < minMarker || p.Size > maxMarker {
			t.Fatalf("point = %+v", p)
		}
	}
}

func TestTankIsStatic(t *testing.T) {
	d := Tank(150)
	if d.Level != 100 {
		t.Fatalf("level = %v", d.Level)
	}
	var users int
	for _, l := range d.Labels {
		if l.Kind == "user" {
			users++
		}
	}
	if users != 10 || len(d.Alerts) != 4 || d.Alerts[0].Label != "25% Alert" {
		t.Fatalf("tank = %+v", d)
	}
	got, err := Data("tank", dataset.Sample().WithRows(nil), Options{TankLevel: 60})
	if err != nil || got.(TankData).Level != 60 {
		t.Fatalf("tank data = %+v, %v", got, err)
	}
}

func TestTableView(t *testing.T) {
	d := TableView(dataset.Sample(), 5)
	if d.Caption != "Showing 240 rows of filtered data." || len(d.Rows) != 5 {
		t.Fatalf("table = %q rows=%d", d.Caption, len(d.Rows))
	}
	if len(d.Columns) != len(d.Rows[0]) {
		t.Fatalf("columns %d vs cells %d", len(d.Columns), len(d.Rows[0]))
	}
}
