package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SampleHeader is the header of the demo dataset. It carries the bookkeeping
// columns real exports contain (a pandas index and the anomaly flag).
var SampleHeader = []string{
	"Unnamed: 0", ColUserID, ColAreaCode, ColDeviceID, ColWaterUsage, ColTime,
	ColHourly, ColDaily, ColMonthly, ColYearly, "Anomalous",
}

// SampleRecords generates a deterministic demo dataset: ten users in two
// areas, one reading per user per month over 2022 and 2023.
func SampleRecords() (header []string, rows [][]string) {
	start := time.Date(2022, time.January, 15, 8, 0, 0, 0, time.UTC)
	n := 0
	for m := 0; m < 24; m++ {
		for u := 1; u <= 10; u++ {
			ts := start.AddDate(0, m, 0).Add(time.Duration(u) * time.Hour)
			area := "A1"
			if u > 5 {
				area = "A2"
			}
			usage := "Yes"
			if (u+m)%3 == 0 {
				usage = "No"
			}
			hourly := float64(u)*1.5 + float64(m%12)*0.25
			daily := hourly * 24
			monthly := daily * 30
			yearly := monthly*12 + float64(u*m%7)*10
			anomalous := "0"
			if u == 7 && m%5 == 0 {
				anomalous = "1"
			}
			rows = append(rows, []string{
				strconv.Itoa(n),
				strconv.Itoa(u),
				area,
				"D" + strconv.Itoa(u),
				usage,
				ts.Format(TimeLayout),
				fmtFloat(hourly),
				fmtFloat(daily),
				fmtFloat(monthly),
				fmtFloat(yearly),
				anomalous,
			})
			n++
		}
	}
	return append([]string(nil), SampleHeader...), rows
}

// Sample builds the demo dataset as a Table.
func Sample() *Table {
	header, rows := SampleRecords()
	t, err := Build(header, rows, DefaultLoadOptions())
	if err != nil {
		panic(fmt.Sprintf("sample dataset: %v", err))
	}
	t.Name = "sample"
	return t
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// WriteRecords writes header and rows to path as csv/tsv or xlsx, chosen by extension.
func WriteRecords(path string, header []string, rows [][]string) error {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return writeXLSX(path, header, rows)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"):
		return writeCSV(path, header, rows)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		w.Comma = '\t'
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return f.Close()
}

// writeXLSX stores numbers as numeric cells and Time as date cells, the way
// spreadsheet exports do.
func writeXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	timeCol := -1
	for i, h := range header {
		if h == ColTime {
			timeCol = i
		}
	}
	write := func(rowNum int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}
	hv := make([]any, len(header))
	for i, h := range header {
		hv[i] = h
	}
	if err := write(1, hv); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for n, rec := range rows {
		vals := make([]any, len(rec))
		for i, v := range rec {
			vals[i] = v
			if i == timeCol {
				if ts, ok := ParseTime(v); ok {
					vals[i] = ts
				}
				continue
			}
			if fv, err := strconv.ParseFloat(v, 64); err == nil {
				vals[i] = fv
			}
		}
		if err := write(n+2, vals); err != nil {
			return fmt.Errorf("write row %d: %w", n+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
