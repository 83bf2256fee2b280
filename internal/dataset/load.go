package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOptions controls how a source file becomes a Table.
type LoadOptions struct {
	// Sheet selects an xlsx sheet by name; empty means the first sheet.
	Sheet string
	// DropColumns are removed when present, in addition to unlabeled columns.
	DropColumns []string
}

// DefaultLoadOptions drops the anomaly flag column.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{DropColumns: []string{"Anomalous"}}
}

// Load reads the readings file at path, drops bookkeeping columns, parses Time
// and derives Year/Month/Day. Any failure is a load error.
func Load(path string, opt LoadOptions) (*Table, error) {
	src, err := sourceFor(path)
	if err != nil {
		return nil, err
	}
	header, rows, err := src.Read(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	t, err := Build(header, rows, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// IsUnlabeled reports whether a header names a bookkeeping column without a label.
func IsUnlabeled(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.HasPrefix(name, "Unnamed")
}

// Build turns raw header and rows into a Table.
func Build(header []string, rows [][]string, opt LoadOptions) (*Table, error) {
	drop := make(map[string]bool, len(opt.DropColumns))
	for _, c := range opt.DropColumns {
		drop[strings.TrimSpace(c)] = true
	}
	idx := map[string]int{}
	var columns []string
	for i, h := range header {
		h = strings.TrimSpace(h)
		if IsUnlabeled(h) || drop[h] || derived(h) {
			continue
		}
		if _, dup := idx[h]; dup {
			continue
		}
		idx[h] = i
		columns = append(columns, h)
	}
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	required := make(map[string]bool, len(RequiredColumns))
	for _, c := range RequiredColumns {
		required[c] = true
	}
	var extras []string
	for _, c := range columns {
		if !required[c] {
			extras = append(extras, c)
		}
	}

	t := &Table{Columns: append(columns, ColYear, ColMonth, ColDay)}
	t.Rows = make([]Reading, 0, len(rows))
	for n, rec := range rows {
		if blankRow(rec) {
			continue
		}
		// Spreadsheet row number, header is row 1.
		rowNum := n + 2
		cell := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		ts, ok := ParseTime(cell(ColTime))
		if !ok {
			return nil, fmt.Errorf("%w: row %d: %q", ErrUnparsableTime, rowNum, cell(ColTime))
		}
		r := Reading{
			UserID:     normalizeID(cell(ColUserID)),
			AreaCode:   normalizeID(cell(ColAreaCode)),
			DeviceID:   normalizeID(cell(ColDeviceID)),
			WaterUsage: normalizeID(cell(ColWaterUsage)),
			Time:       ts,
			Year:       ts.Year(),
			Month:      int(ts.Month()),
			Day:        ts.Day(),
		}
		for _, c := range ConsumptionColumns {
			v, err := parseNumber(cell(c))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %q", ErrInvalidNumber, rowNum, c, cell(c))
			}
			switch c {
			case ColHourly:
				r.Hourly = v
			case ColDaily:
				r.Daily = v
			case ColMonthly:
				r.Monthly = v
			case ColYearly:
				r.Yearly = v
			}
		}
		if len(extras) > 0 {
			r.Extra = make(map[string]string, len(extras))
			for _, c := range extras {
				r.Extra[c] = cell(c)
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

func derived(col string) bool {
	return col == ColYear || col == ColMonth || col == ColDay
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// normalizeID renders integral floats ("12.0") as integers so IDs read from
// numeric spreadsheet cells match their textual form.
func normalizeID(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}
