package charts

import (
	"fmt"

	"github.com/KaramelBytes/waterdash/internal/dataset"
)

// TableData is the tabular display of the filtered rows.
type TableData struct {
	Caption string     `json:"caption"`
	Total   int        `json:"total"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// RowsCaption is the row-count line shown above the table.
func RowsCaption(n int) string {
	return fmt.Sprintf("Showing %d rows of filtered data.", n)
}

// TableView formats up to limit rows of t (all rows when limit <= 0). The
// caption always counts every filtered row.
func TableView(t *dataset.Table, limit int) TableData {
	d := TableData{Caption: RowsCaption(t.Len()), Total: t.Len(), Rows: [][]string{}}
	if t == nil {
		return d
	}
	d.Columns = t.Columns
	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, r := range rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = r.Cell(c)
		}
		d.Rows = append(d.Rows, cells)
	}
	return d
}
