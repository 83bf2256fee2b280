package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var timeLayouts = []string{
	time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05",
	"2006-01-02", "2006/01/02", "2006/01/02 15:04:05",
	"1/2/2006 15:04:05", "1/2/2006 15:04", "01/02/2006", "1/2/2006",
}

// ParseTime parses a Time cell. Besides the textual layouts it accepts Excel
// serial day numbers, which is how xlsx stores date cells.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	// Serials carry float noise; snap to the nearest second.
	return t.Round(time.Second), true
}
