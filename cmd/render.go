package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/waterdash/internal/charts"
	"github.com/KaramelBytes/waterdash/internal/export"
	"github.com/KaramelBytes/waterdash/internal/filter"
	"github.com/KaramelBytes/waterdash/internal/logx"
)

var (
	renderOut     string
	renderFormat  string
	renderPDF     string
	renderFilters *filterFlags
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every chart of the filtered readings to files",
	Example: `  waterdash render --out charts --year 2022
  waterdash render --format svg --area-code A1 --pdf report.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		format, err := charts.ParseFormat(renderFormat)
		if err != nil {
			return err
		}
		sel, err := renderFilters.selections()
		if err != nil {
			return err
		}
		_, t, err := loadTable(cmd.Context(), c)
		if err != nil {
			return err
		}
		view := filter.Apply(t, sel)
		opt := chartOptions(c)
		logx.Infof("%s", charts.RowsCaption(view.Len()))

		paths, err := export.WriteCharts(renderOut, view, opt, format)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		logx.Successf("Wrote %d charts to %s", len(paths), renderOut)

		if renderPDF != "" {
			id, err := export.WritePDF(renderPDF, view, opt, export.Info{
				Source:  filepath.Base(c.DataPath),
				Filters: sel.Describe(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPDF)
			logx.Successf("Wrote PDF report %s (%s)", renderPDF, id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "charts", "output directory for chart images")
	renderCmd.Flags().StringVar(&renderFormat, "format", "png", "image format: png or svg")
	renderCmd.Flags().StringVar(&renderPDF, "pdf", "", "also write a PDF report to this path")
	renderFilters = addFilterFlags(renderCmd)
}
