package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/waterdash/internal/analysis"
	"github.com/KaramelBytes/waterdash/internal/charts"
	"github.com/KaramelBytes/waterdash/internal/filter"
)

var (
	summaryRows    int
	summaryJSON    bool
	summaryFilters *filterFlags
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the row count, summary statistics and first rows of the filtered readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		sel, err := summaryFilters.selections()
		if err != nil {
			return err
		}
		_, t, err := loadTable(cmd.Context(), c)
		if err != nil {
			return err
		}
		view := filter.Apply(t, sel)
		rep := analysis.Describe(view, analysis.DefaultOptions(), sel.Describe())
		out := cmd.OutOrStdout()
		if summaryJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		fmt.Fprintln(out, rep.Markdown())

		if summaryRows <= 0 || view.Len() == 0 {
			return nil
		}
		tv := charts.TableView(view, summaryRows)
		data := append([][]string{tv.Columns}, tv.Rows...)
		return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(out).Render()
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().IntVar(&summaryRows, "rows", 10, "number of filtered rows to print as a table (0 to skip)")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the report as JSON")
	summaryFilters = addFilterFlags(summaryCmd)
}
