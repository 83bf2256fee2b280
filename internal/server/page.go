package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/KaramelBytes/waterdash/internal/charts"
	"github.com/KaramelBytes/waterdash/internal/dataset"
	"github.com/KaramelBytes/waterdash/internal/filter"
	"github.com/KaramelBytes/waterdash/internal/logx"
)

// sections are the page headings above each chart.
var sections = map[string]string{
	"tank":    "Water Distribution Visualization",
	"trend":   "Time Series Analysis with Trend Line",
	"box":     "Box Plot for Distribution Analysis",
	"heatmap": "Heatmap for Correlation Analysis",
	"violin":  "Violin Plot for Distribution Comparison",
	"stacked": "Stacked Bar Chart for Monthly Consumption Breakdown",
	"scatter": "Scatter Plot for User Consumption",
}

type optionView struct {
	Value    string
	Selected bool
}

type fieldView struct {
	Key     string
	Label   string
	All     bool
	Options []optionView
}

type chartView struct {
	Heading string
	Title   string
	Src     string
	Data    string
}

type pageView struct {
	Source string
	Fields []fieldView
	Table  charts.TableData
	Charts []chartView
}

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	t, view, sel, ok := s.filtered(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, buildPage(t, view, sel, s.opt.Charts)); err != nil {
		respondError(w, NewAPIError(ErrorCodeInternalServerError, "render page", err.Error(), http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		logx.Debugf("write page: %v", err)
	}
}

func buildPage(all, view *dataset.Table, sel filter.Selections, opt charts.Options) pageView {
	p := pageView{Source: all.Name, Table: charts.TableView(view, opt.TableRows)}
	opts := filter.Options(all)
	for _, f := range filter.Fields() {
		fv := fieldView{Key: f.Key(), Label: f.Label(), All: sel[f].All}
		for _, v := range opts[f] {
			fv.Options = append(fv.Options, optionView{Value: v, Selected: sel.IsSelected(f, v)})
		}
		p.Fields = append(p.Fields, fv)
	}
	query := sel.Query().Encode()
	if query != "" {
		query = "?" + query
	}
	for _, name := range charts.Names() {
		title, _ := charts.Title(name)
		p.Charts = append(p.Charts, chartView{
			Heading: sections[name],
			Title:   title,
			Src:     "/charts/" + name + ".png" + query,
			Data:    "/api/charts/" + name + query,
		})
	}
	return p
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Water Consumption Analysis Dashboard</title>
<style>
body { margin: 0; font-family: sans-serif; color: #2a3f5f; display: flex; }
aside { width: 260px; min-height: 100vh; padding: 16px; background: #f0f2f6; box-sizing: border-box; }
aside select { width: 100%; min-height: 5em; }
aside fieldset { border: 0; padding: 0; margin: 0 0 14px 0; }
main { flex: 1; padding: 16px 32px; overflow-x: auto; }
table { border-collapse: collapse; font-size: 12px; }
th, td { border: 1px solid #e5ecf6; padding: 2px 6px; text-align: right; }
.scroll { max-height: 420px; overflow: auto; }
img { max-width: 100%; }
</style>
</head>
<body>
<aside>
<h2>Filter Data</h2>
<form method="get" action="/">
{{range .Fields}}
<fieldset>
<div>{{.Label}}</div>
<label><input type="checkbox" name="all" value="{{.Key}}"{{if .All}} checked{{end}}> Select All {{.Label}}</label>
<select name="{{.Key}}" multiple title="Select {{.Label}}"{{if .All}} disabled{{end}}>
{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select>
</fieldset>
{{end}}
<button type="submit">Apply</button> <a href="/">Reset</a>
</form>
</aside>
<main>
<h1>Water Consumption Analysis Dashboard</h1>
<p>{{.Table.Caption}}</p>
<div class="scroll">
<table>
<thead><tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Table.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</div>
{{range .Charts}}
<h2>{{.Heading}}</h2>
<img src="{{.Src}}" alt="{{.Title}}">
<p><a href="{{.Data}}">data</a></p>
{{end}}
<footer><small>Source: {{.Source}}</small></footer>
</main>
</body>
</html>
`
