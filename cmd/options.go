package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/waterdash/internal/filter"
)

var optionsJSON bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the distinct values offered by each filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, t, err := loadTable(cmd.Context(), currentConfig())
		if err != nil {
			return err
		}
		opts := filter.Options(t)
		out := cmd.OutOrStdout()
		if optionsJSON {
			m := make(map[string][]string, len(opts))
			for f, vals := range opts {
				m[f.Key()] = vals
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}
		for _, f := range filter.Fields() {
			fmt.Fprintf(out, "%s (--%s): %s\n", f.Label(), strings.ReplaceAll(f.Key(), "_", "-"), strings.Join(opts[f], ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "print options as JSON")
}
