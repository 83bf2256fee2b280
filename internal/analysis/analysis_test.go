package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestQuantileInterpolates(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	cases := []struct {
		q, want float64
	}{
		{0, 1}, {0.25, 1.75}, {0.5, 2.5}, {0.75, 3.25}, {1, 4},
	}
	for _, c := range cases {
		if got := Quantile(s, c.q); !almost(got, c.want) {
			t.Errorf("Quantile(%v) = %v, want %v", c.q, got, c.want)
		}
	}
	if Quantile(nil, 0.5) != 0 {
		t.Fatalf("empty quantile should be 0")
	}
}

func TestBoxWhiskersAndOutliers(t *testing.T) {
	b := Box([]float64{5, 1, 3, 2, 4, 100})
	if b.N != 6 || b.Min != 1 || b.Max != 100 {
		t.Fatalf("box = %+v", b)
	}
	if !almost(b.Median, 3.5) || !almost(b.Q1, 2.25) || !almost(b.Q3, 4.75) {
		t.Fatalf("quartiles = %v %v %v", b.Q1, b.Median, b.Q3)
	}
	if len(b.Outliers) != 1 || b.Outliers[0] != 100 {
		t.Fatalf("outliers = %v", b.Outliers)
	}
	if b.WhiskerLow != 1 || b.WhiskerHigh != 5 {
		t.Fatalf("whiskers = %v..%v", b.WhiskerLow, b.WhiskerHigh)
	}
	if got := Box(nil); got.N != 0 {
		t.Fatalf("empty box = %+v", got)
	}
}

func TestRollingMean(t *testing.T) {
	got := RollingMean([]float64{1, 2, 3, 4, 5}, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("position %d should be NaN, got %v", i, got[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almost(got[i+2], w) {
			t.Fatalf("rolling[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
	short := RollingMean([]float64{1, 2}, 12)
	if !math.IsNaN(short[0]) || !math.IsNaN(short[1]) {
		t.Fatalf("series shorter than the window must be all NaN: %v", short)
	}
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	m := Pearson([]string{"x", "double", "neg", "flat"}, [][]float64{
		x,
		{2, 4, 6, 8},
		{4, 3, 2, 1},
		{7, 7, 7, 7},
	})
	if !almost(m.Values[0][1], 1) {
		t.Fatalf("r(x, 2x) = %v", m.Values[0][1])
	}
	if !almost(m.Values[0][2], -1) {
		t.Fatalf("r(x, -x) = %v", m.Values[0][2])
	}
	if m.Values[0][3] != 0 || m.Values[3][0] != 0 {
		t.Fatalf("zero variance should give 0, got %v", m.Values[0][3])
	}
	for i := range m.Columns {
		if m.Values[i][i] != 1 {
			t.Fatalf("diagonal[%d] = %v", i, m.Values[i][i])
		}
	}
	if got := len(m.Pairs()); got != 6 {
		t.Fatalf("pairs = %d", got)
	}
}

func TestPearsonLargeOffset(t *testing.T) {
	const n = 1000
	x := make([]float64, n)
	y := make([]float64, n)
	neg := make([]float64, n)
	for i := range x {
		x[i] = 1e6 + float64(i%3)*0.1
		y[i] = x[i]
		neg[i] = 5e8 - float64(i%3)*0.1
	}
	m := Pearson([]string{"x", "same", "neg"}, [][]float64{x, y, neg})
	if math.Abs(m.Values[0][1]-1) > 1e-9 {
		t.Fatalf("r(x, x) with large offset = %v, want 1", m.Values[0][1])
	}
	if math.Abs(m.Values[0][2]+1) > 1e-6 {
		t.Fatalf("r(x, -x) with large offset = %v, want -1", m.Values[0][2])
	}

	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 1e9
	}
	if got := Pearson([]string{"x", "flat"}, [][]float64{x, flat}).Values[0][1]; got != 0 {
		t.Fatalf("zero variance with large offset = %v, want 0", got)
	}
}

func TestKDE(t *testing.T) {
	xs, ys := KDE([]float64{1, 2, 2, 3, 3, 3, 4}, 50)
	if len(xs) != 50 || len(ys) != 50 {
		t.Fatalf("points = %d/%d", len(xs), len(ys))
	}
	// Trapezoid integral of a density over ±3h is close to 1.
	var area float64
	for i := 1; i < len(xs); i++ {
		area += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}
	if area < 0.95 || area > 1.01 {
		t.Fatalf("density integrates to %v", area)
	}
	if xs, _ := KDE([]float64{5, 5, 5}, 50); xs != nil {
		t.Fatalf("constant input should not produce a density")
	}
}

func TestDescribeSample(t *testing.T) {
	tbl := dataset.Sample()
	rep := Describe(tbl, DefaultOptions(), []string{"Year: 2022"})
	if rep.Rows != tbl.Len() {
		t.Fatalf("rows = %d", rep.Rows)
	}
	var hourly *ColumnSummary
	for i := range rep.Cols {
		if rep.Cols[i].Name == dataset.ColHourly {
			hourly = &rep.Cols[i]
		}
	}
	if hourly == nil || hourly.Kind != "numeric" || hourly.Min <= 0 || hourly.Max < hourly.Min {
		t.Fatalf("hourly summary = %+v", hourly)
	}
	if rep.Corr == nil || math.Abs(rep.Corr.Values[0][1]-1) > 1e-6 {
		t.Fatalf("hourly and daily are proportional in the sample: %+v", rep.Corr)
	}
	md := rep.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "Showing 240 rows of filtered data.", "Year: 2022", "[SCHEMA]", "[CORRELATIONS]", "[HEAD ROWS]"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestDescribeEmpty(t *testing.T) {
	rep := Describe(dataset.Sample().WithRows(nil), DefaultOptions(), nil)
	md := rep.Markdown()
	if !strings.Contains(md, "Showing 0 rows") || !strings.Contains(md, "[NOTES]") {
		t.Fatalf("markdown = %s", md)
	}
}
