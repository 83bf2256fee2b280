// Package filter narrows a readings table through per-field multi-select
// selections, the way the dashboard sidebar does.
package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// Field is one filterable column.
type Field int

const (
	UserID Field = iota
	AreaCode
	DeviceID
	WaterUsage
	Year
	Month
	Day
)

var fieldDefs = [...]struct {
	key    string
	label  string
	column string
}{
	UserID:     {"user_id", "User ID", dataset.ColUserID},
	AreaCode:   {"area_code", "Area Code", dataset.ColAreaCode},
	DeviceID:   {"device_id", "Device ID", dataset.ColDeviceID},
	WaterUsage: {"water_usage", "Water Usage", dataset.ColWaterUsage},
	Year:       {"year", "Year", dataset.ColYear},
	Month:      {"month", "Month", dataset.ColMonth},
	Day:        {"day", "Day", dataset.ColDay},
}

// Fields returns every filterable field in sidebar order.
func Fields() []Field {
	return []Field{UserID, AreaCode, DeviceID, WaterUsage, Year, Month, Day}
}

// Key is the stable form/flag name of the field.
func (f Field) Key() string { return fieldDefs[f].key }

// Label is the human-readable name shown next to the control.
func (f Field) Label() string { return fieldDefs[f].label }

// Column is the table column the field reads.
func (f Field) Column() string { return fieldDefs[f].column }

func (f Field) String() string { return f.Key() }

// ParseField accepts a field key, label or column name, case-insensitively.
func ParseField(s string) (Field, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields() {
		d := fieldDefs[f]
		if norm == d.key || norm == strings.ToLower(d.label) || norm == strings.ToLower(d.column) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown filter field: %q", s)
}

// Value returns the canonical string form of the field for a reading.
func (f Field) Value(r dataset.Reading) string {
	switch f {
	case UserID:
		return r.UserID
	case AreaCode:
		return r.AreaCode
	case DeviceID:
		return r.DeviceID
	case WaterUsage:
		return r.WaterUsage
	case Year:
		return strconv.Itoa(r.Year)
	case Month:
		return strconv.Itoa(r.Month)
	case Day:
		return strconv.Itoa(r.Day)
	}
	return ""
}

// Options returns the distinct values of the field in order of first appearance.
func (f Field) Options(t *dataset.Table) []string {
	return t.Distinct(f.Value)
}

// Options returns the distinct values of every field.
func Options(t *dataset.Table) map[Field][]string {
	out := make(map[Field][]string, len(fieldDefs))
	for _, f := range Fields() {
		out[f] = f.Options(t)
	}
	return out
}

// Selection is the state of one multi-select control. All overrides Values.
type Selection struct {
	Values []string `json:"values,omitempty"`
	All    bool     `json:"all,omitempty"`
}

// Active reports whether the selection narrows the table. An empty selection
// means no filter; select-all resolves to every option, which is also no filter.
func (s Selection) Active() bool {
	return !s.All && len(s.Values) > 0
}

// Selections holds the sidebar state per field.
type Selections map[Field]Selection

// Set replaces the selected values of f.
func (s Selections) Set(f Field, values ...string) {
	cur := s[f]
	cur.Values = values
	s[f] = cur
}

// SelectAll toggles the select-all override of f.
func (s Selections) SelectAll(f Field, all bool) {
	cur := s[f]
	cur.All = all
	s[f] = cur
}

// IsSelected reports whether v is explicitly selected for f.
func (s Selections) IsSelected(f Field, v string) bool {
	for _, x := range s[f].Values {
		if x == v {
			return true
		}
	}
	return false
}

// Describe lists the active filters as "Label: a, b", in field order.
func (s Selections) Describe() []string {
	var out []string
	for _, f := range Fields() {
		sel, ok := s[f]
		if !ok || !sel.Active() {
			continue
		}
		vals := append([]string(nil), sel.Values...)
		sort.Strings(vals)
		out = append(out, fmt.Sprintf("%s: %s", f.Label(), strings.Join(vals, ", ")))
	}
	return out
}

// Apply keeps the rows whose value is in every active selection. Inactive
// selections are no-ops, so field order never matters.
func Apply(t *dataset.Table, sel Selections) *dataset.Table {
	type predicate struct {
		field Field
		allow map[string]struct{}
	}
	var preds []predicate
	for _, f := range Fields() {
		s, ok := sel[f]
		if !ok || !s.Active() {
			continue
		}
		allow := make(map[string]struct{}, len(s.Values))
		for _, v := range s.Values {
			allow[strings.TrimSpace(v)] = struct{}{}
		}
		preds = append(preds, predicate{field: f, allow: allow})
	}
	if len(preds) == 0 {
		return t
	}
	rows := make([]dataset.Reading, 0, t.Len())
	for _, r := range t.Rows {
		keep := true
		for _, p := range preds {
			if _, ok := p.allow[p.field.Value(r)]; !ok {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, r)
		}
	}
	return t.WithRows(rows)
}
