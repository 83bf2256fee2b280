package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// Options controls the summary report.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the category counts listed per categorical column.
	TopValues int
	// OutlierThreshold counts values with robust |z| (MAD) above it; 0 disables.
	OutlierThreshold float64
	// Correlations computes Pearson correlations among the consumption columns.
	Correlations bool
}

// DefaultOptions returns reasonable defaults for the readings report.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		TopValues:        5,
		OutlierThreshold: 3.5,
		Correlations:     true,
	}
}

// Report is a markdown-friendly summary of a readings table.
type Report struct {
	Name     string          `json:"name"`
	Rows     int             `json:"rows"`
	Cols     []ColumnSummary `json:"columns"`
	From     time.Time       `json:"from,omitempty"`
	To       time.Time       `json:"to,omitempty"`
	Header   []string        `json:"header,omitempty"`
	Samples  [][]string      `json:"samples,omitempty"`
	Corr     *CorrMatrix     `json:"correlations,omitempty"`
	Filters  []string        `json:"filters,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // numeric|datetime|categorical
	NonNull int    `json:"non_null"`
	Unique  int    `json:"unique,omitempty"`
	// Numeric stats
	Min           float64 `json:"min,omitempty"`
	Max           float64 `json:"max,omitempty"`
	Mean          float64 `json:"mean,omitempty"`
	Std           float64 `json:"std,omitempty"`
	Median        float64 `json:"median,omitempty"`
	OutliersCount int     `json:"outliers,omitempty"`
	// Categorical stats
	TopValues []CategoryCount `json:"top_values,omitempty"`
}

// CategoryCount is a value and how often it occurs.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

var categoricalColumns = []string{
	dataset.ColUserID, dataset.ColAreaCode, dataset.ColDeviceID, dataset.ColWaterUsage,
}

// Column extracts one consumption column of t in row order.
func Column(t *dataset.Table, col string) []float64 {
	out := make([]float64, 0, t.Len())
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		if v, ok := r.Consumption(col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Describe summarizes t. filters describes the selection that produced it.
func Describe(t *dataset.Table, opt Options, filters []string) *Report {
	rep := &Report{Rows: t.Len(), Filters: filters}
	if t != nil {
		rep.Name = t.Name
	}
	if rep.Rows == 0 {
		rep.Warnings = append(rep.Warnings, "No rows match the current filters.")
		return rep
	}

	for _, col := range categoricalColumns {
		rep.Cols = append(rep.Cols, categorical(t, col, opt.TopValues))
	}

	rep.From, rep.To = t.Rows[0].Time, t.Rows[0].Time
	for _, r := range t.Rows[1:] {
		if r.Time.Before(rep.From) {
			rep.From = r.Time
		}
		if r.Time.After(rep.To) {
			rep.To = r.Time
		}
	}
	rep.Cols = append(rep.Cols, ColumnSummary{Name: dataset.ColTime, Kind: "datetime", NonNull: rep.Rows})

	cols := make([][]float64, 0, len(dataset.ConsumptionColumns))
	for _, col := range dataset.ConsumptionColumns {
		vals := Column(t, col)
		cols = append(cols, vals)
		rep.Cols = append(rep.Cols, numeric(col, vals, opt.OutlierThreshold))
	}
	if opt.Correlations {
		rep.Corr = Pearson(dataset.ConsumptionColumns, cols)
		if rep.Rows < 2 {
			rep.Warnings = append(rep.Warnings, "Correlations need at least two rows; reported as 0.")
		}
	}

	rep.Header = t.Columns
	n := opt.SampleRows
	if n > rep.Rows {
		n = rep.Rows
	}
	for _, r := range t.Rows[:n] {
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = r.Cell(c)
		}
		rep.Samples = append(rep.Samples, row)
	}
	return rep
}

func categorical(t *dataset.Table, col string, top int) ColumnSummary {
	counts := make(map[string]int)
	var order []string
	for _, r := range t.Rows {
		v := r.Cell(col)
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	tops := make([]CategoryCount, 0, len(order))
	for _, v := range order {
		tops = append(tops, CategoryCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(tops, func(i, j int) bool { return tops[i].Count > tops[j].Count })
	if top > 0 && len(tops) > top {
		tops = tops[:top]
	}
	return ColumnSummary{
		Name:      col,
		Kind:      "categorical",
		NonNull:   t.Len(),
		Unique:    len(order),
		TopValues: tops,
	}
}

func numeric(col string, vals []float64, threshold float64) ColumnSummary {
	cs := ColumnSummary{Name: col, Kind: "numeric", NonNull: len(vals)}
	if len(vals) == 0 {
		return cs
	}
	s := sortedCopy(vals)
	cs.Min, cs.Max = s[0], s[len(s)-1]
	cs.Mean, cs.Std = meanStd(s)
	med, mad := medianMAD(s)
	cs.Median = med
	if threshold > 0 && mad > 0 {
		for _, v := range s {
			// 0.6745 scales MAD to a normal standard deviation.
			if z := 0.6745 * (v - med) / mad; math.Abs(z) > threshold {
				cs.OutliersCount++
			}
		}
	}
	return cs
}

// Markdown renders the report in the sectioned plain-text layout used by the CLI and API.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Showing %d rows of filtered data.\n", r.Rows))
	if !r.From.IsZero() {
		b.WriteString(fmt.Sprintf("Period: %s to %s\n", r.From.Format(dataset.TimeLayout), r.To.Format(dataset.TimeLayout)))
	}
	if len(r.Filters) > 0 {
		b.WriteString("Filters:\n")
		for _, f := range r.Filters {
			b.WriteString("- " + f + "\n")
		}
	}

	if len(r.Cols) > 0 {
		b.WriteString("\n[SCHEMA]\n")
	}
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d)", c.Name, c.Kind, c.NonNull))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
			if c.OutliersCount > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d", c.OutliersCount))
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		pairs := r.Corr.Pairs()
		sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].R) > math.Abs(pairs[j].R) })
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.Samples) > 0 && len(r.Header) > 0 {
		b.WriteString("\n[HEAD ROWS]\n")
		b.WriteString("| " + strings.Join(cleanRow(r.Header), " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(r.Header)) + "\n")
		for _, row := range r.Samples {
			b.WriteString("| " + strings.Join(cleanRow(row), " | ") + " |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

func cleanRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if len(v) > 80 {
			v = v[:77] + "..."
		}
		out[i] = safeVal(v)
	}
	return out
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
