package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/waterdash/internal/charts"
	cfgpkg "github.com/KaramelBytes/waterdash/internal/config"
	"github.com/KaramelBytes/waterdash/internal/dataset"
	"github.com/KaramelBytes/waterdash/internal/logx"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	flagData  string
	flagSheet string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "waterdash",
	Short: "Water consumption dashboard: filter readings and chart them",
	Long: `waterdash loads a spreadsheet of water-consumption readings, filters it by user,
area, device, usage and date, and renders the dashboard charts in a browser
(serve) or to files (render).`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.waterdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "readings spreadsheet (.xlsx, .csv, .tsv); overrides data_path")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "worksheet name for .xlsx sources; overrides sheet_name")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so config set can repair a broken file
		logx.Warnf("failed to load config: %v", err)
		c = cfgpkg.Default()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.DataPath = flagData
	}
	if f.Changed("sheet") {
		cfg.SheetName = flagSheet
	}
	logx.SetLevel(cfg.LogLevel)
	if debug {
		logx.SetLevel("debug")
	}
}

// currentConfig returns the loaded configuration, or defaults when loading was skipped.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

func loadOptions(c *cfgpkg.Global) dataset.LoadOptions {
	return dataset.LoadOptions{Sheet: c.SheetName, DropColumns: c.DropColumns}
}

func chartOptions(c *cfgpkg.Global) charts.Options {
	return charts.Options{
		Width:         c.ChartWidth,
		Height:        c.ChartHeight,
		RollingWindow: c.RollingWindow,
		TankLevel:     c.TankLevel,
		TableRows:     c.TableRows,
	}
}

// loadTable reads the configured spreadsheet once through the cache used by
// every command.
func loadTable(ctx context.Context, c *cfgpkg.Global) (*dataset.Cache, *dataset.Table, error) {
	cache := dataset.NewCache(c.DataPath, loadOptions(c))
	t, err := cache.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	logx.Debugf("loaded %d readings from %s", t.Len(), c.DataPath)
	return cache, t, nil
}
