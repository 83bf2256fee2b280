package dataset

import (
	"strconv"
	"time"
)

// Column headers of the readings spreadsheet.
const (
	ColUserID     = "User_ID"
	ColAreaCode   = "Area_Code"
	ColDeviceID   = "Device_ID"
	ColWaterUsage = "Water_Usage"
	ColTime       = "Time"
	ColHourly     = "Hourly_Water_Consumption"
	ColDaily      = "Daily_Water_Consumption"
	ColMonthly    = "Monthly_Water_Consumption"
	ColYearly     = "Yearly_Water_Consumption"
	ColYear       = "Year"
	ColMonth      = "Month"
	ColDay        = "Day"
)

// RequiredColumns must be present in every source.
var RequiredColumns = []string{
	ColUserID, ColAreaCode, ColDeviceID, ColWaterUsage, ColTime,
	ColHourly, ColDaily, ColMonthly, ColYearly,
}

// ConsumptionColumns are the four numeric magnitudes, in display order.
var ConsumptionColumns = []string{ColHourly, ColDaily, ColMonthly, ColYearly}

// TimeLayout is used when a timestamp is displayed.
const TimeLayout = "2006-01-02 15:04:05"

// Reading is one row of the water-consumption table.
type Reading struct {
	UserID     string    `json:"user_id"`
	AreaCode   string    `json:"area_code"`
	DeviceID   string    `json:"device_id"`
	WaterUsage string    `json:"water_usage"`
	Time       time.Time `json:"time"`
	Hourly     float64   `json:"hourly_water_consumption"`
	Daily      float64   `json:"daily_water_consumption"`
	Monthly    float64   `json:"monthly_water_consumption"`
	Yearly     float64   `json:"yearly_water_consumption"`
	// Derived once from Time at load.
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
	// Any other labeled column, by header.
	Extra map[string]string `json:"extra,omitempty"`
}

// Consumption returns the magnitude stored under one of ConsumptionColumns.
func (r Reading) Consumption(col string) (float64, bool) {
	switch col {
	case ColHourly:
		return r.Hourly, true
	case ColDaily:
		return r.Daily, true
	case ColMonthly:
		return r.Monthly, true
	case ColYearly:
		return r.Yearly, true
	}
	return 0, false
}

// Cell formats the value of the named column for tabular display.
func (r Reading) Cell(col string) string {
	switch col {
	case ColUserID:
		return r.UserID
	case ColAreaCode:
		return r.AreaCode
	case ColDeviceID:
		return r.DeviceID
	case ColWaterUsage:
		return r.WaterUsage
	case ColTime:
		return r.Time.Format(TimeLayout)
	case ColYear:
		return strconv.Itoa(r.Year)
	case ColMonth:
		return strconv.Itoa(r.Month)
	case ColDay:
		return strconv.Itoa(r.Day)
	}
	if v, ok := r.Consumption(col); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return r.Extra[col]
}

// Table is the in-memory readings table. Rows are never mutated after load.
type Table struct {
	Name    string
	Columns []string
	Rows    []Reading
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// WithRows returns a table sharing t's name and columns over rows.
func (t *Table) WithRows(rows []Reading) *Table {
	return &Table{Name: t.Name, Columns: t.Columns, Rows: rows}
}

// Distinct returns the distinct values of key over the rows, in order of first appearance.
func (t *Table) Distinct(key func(Reading) string) []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.Rows {
		v := key(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
