package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/waterdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set waterdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", c.DataPath)
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(out, "drop_columns: %s\n", strings.Join(c.DropColumns, ","))
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "cors_origins: %s\n", strings.Join(c.CORSOrigins, ","))
		fmt.Fprintf(out, "table_rows: %d\n", c.TableRows)
		fmt.Fprintf(out, "chart_width: %d\n", c.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", c.ChartHeight)
		fmt.Fprintf(out, "rolling_window: %d\n", c.RollingWindow)
		fmt.Fprintf(out, "tank_level: %.1f\n", c.TankLevel)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		positive := func() (int, error) {
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			return i, nil
		}
		var err error
		switch key {
		case "data_path":
			cfg.DataPath = val
		case "sheet_name":
			cfg.SheetName = val
		case "drop_columns":
			cfg.DropColumns = splitList(val)
		case "listen_addr":
			cfg.ListenAddr = val
		case "cors_origins":
			cfg.CORSOrigins = splitList(val)
		case "table_rows":
			cfg.TableRows, err = positive()
		case "chart_width":
			cfg.ChartWidth, err = positive()
		case "chart_height":
			cfg.ChartHeight, err = positive()
		case "rolling_window":
			cfg.RollingWindow, err = positive()
		case "tank_level":
			f, perr := strconv.ParseFloat(val, 64)
			if perr != nil || f < 0 || f > 100 {
				return fmt.Errorf("invalid tank_level %v (use 0..100)", val)
			}
			cfg.TankLevel = f
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
