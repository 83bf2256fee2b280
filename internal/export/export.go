// Package export writes the dashboard charts and a PDF report to disk.
package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/KaramelBytes/waterdash/internal/analysis"
	"github.com/KaramelBytes/waterdash/internal/charts"
	"github.com/KaramelBytes/waterdash/internal/dataset"
	"github.com/KaramelBytes/waterdash/internal/utils"
)

// Info describes how the exported table was produced.
type Info struct {
	Source      string
	Filters     []string
	GeneratedAt time.Time
}

// WriteCharts renders every chart of t into dir as <name>.<format> and returns
// the written paths in page order.
func WriteCharts(dir string, t *dataset.Table, opt charts.Options, format charts.Format) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	var paths []string
	for _, name := range charts.Names() {
		b, err := charts.Render(name, t, opt, format)
		if err != nil {
			return paths, err
		}
		p := filepath.Join(dir, name+"."+string(format))
		if err := utils.SafeWriteFile(p, b); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WritePDF writes a report with the filters, the summary statistics and every
// chart to path. It returns the report id stamped on each page.
func WritePDF(path string, t *dataset.Table, opt charts.Options, info Info) (string, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if info.GeneratedAt.IsZero() {
		info.GeneratedAt = time.Now()
	}
	id := uuid.NewString()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Water Consumption Analysis", false)
	pdf.SetSubject("report "+id, false)
	pdf.SetCreator("waterdash", false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("Report %s  |  page %d/{nb}", id, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	headerColor := [3]int{40, 63, 95}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
	}

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, tr("  Water Consumption Analysis Dashboard"), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Source: %s   Generated: %s", info.Source, info.GeneratedAt.Format(dataset.TimeLayout))), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	section("Filters")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	filters := "No filters (all rows)."
	if len(info.Filters) > 0 {
		filters = strings.Join(info.Filters, "\n")
	}
	pdf.MultiCell(190, 5, tr(filters), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, tr(charts.RowsCaption(t.Len())))
	pdf.Ln(10)

	section("Summary")
	rep := analysis.Describe(t, analysis.Options{TopValues: 5, OutlierThreshold: 3.5, Correlations: true}, info.Filters)
	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(190, 4, tr(rep.Markdown()), "", "L", false)
	pdf.Ln(6)

	for _, name := range charts.Names() {
		b, err := charts.Render(name, t, opt, charts.PNG)
		if err != nil {
			return "", err
		}
		title, _ := charts.Title(name)
		pdf.AddPage()
		section(title)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(b))
		pdf.ImageOptions(name, 10, pdf.GetY()+2, 190, 0, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("render pdf %s: %w", path, err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write pdf %s: %w", path, err)
	}
	return id, nil
}
