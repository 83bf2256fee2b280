package filter

import (
	"net/url"
	"strings"
)

// AllKey is the query/flag name listing fields whose select-all box is ticked.
const AllKey = "all"

// FromQuery decodes sidebar form values: repeated field keys carry selected
// values (user_id=1&user_id=2) and "all" lists select-all fields.
// Unknown keys are ignored.
func FromQuery(q url.Values) Selections {
	sel := Selections{}
	for _, f := range Fields() {
		vals := cleanValues(q[f.Key()])
		if len(vals) > 0 {
			sel.Set(f, vals...)
		}
	}
	for _, name := range cleanValues(q[AllKey]) {
		if f, err := ParseField(name); err == nil {
			sel.SelectAll(f, true)
		}
	}
	return sel
}

// Query encodes the selections back into form values.
func (s Selections) Query() url.Values {
	q := url.Values{}
	for _, f := range Fields() {
		sel, ok := s[f]
		if !ok {
			continue
		}
		for _, v := range sel.Values {
			q.Add(f.Key(), v)
		}
		if sel.All {
			q.Add(AllKey, f.Key())
		}
	}
	return q
}

// FromFlags builds selections from CLI flag values keyed by field and a list of
// select-all field names.
func FromFlags(values map[Field][]string, all []string) (Selections, error) {
	sel := Selections{}
	for f, vals := range values {
		vals = cleanValues(vals)
		if len(vals) > 0 {
			sel.Set(f, vals...)
		}
	}
	for _, name := range cleanValues(all) {
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		sel.SelectAll(f, true)
	}
	return sel, nil
}

// cleanValues trims values and drops empty ones. Values are never split: an
// option may itself contain a comma, and pflag's StringSlice already splits
// CLI input with CSV quoting.
func cleanValues(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
