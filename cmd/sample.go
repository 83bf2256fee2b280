package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/waterdash/internal/dataset"
	"github.com/KaramelBytes/waterdash/internal/logx"
)

var sampleForce bool

var sampleCmd = &cobra.Command{
	Use:   "sample <path>",
	Short: "Write a deterministic demo readings file (.xlsx, .csv or .tsv)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil && !sampleForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		header, rows := dataset.SampleRecords()
		if err := dataset.WriteRecords(path, header, rows); err != nil {
			return err
		}
		logx.Successf("Wrote %d sample readings to %s", len(rows), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().BoolVar(&sampleForce, "force", false, "overwrite an existing file")
}
