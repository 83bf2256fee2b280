package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/waterdash/internal/utils"
)

// DefaultDataPath is where the dashboard looks for the readings spreadsheet.
const DefaultDataPath = "data/NonRevenue Water Data(1).xlsx"

// Global configuration structure.
type Global struct {
	DataPath    string   `mapstructure:"data_path" yaml:"data_path"`
	SheetName   string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	DropColumns []string `mapstructure:"drop_columns" yaml:"drop_columns"`

	// HTTP dashboard
	ListenAddr  string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	TableRows   int      `mapstructure:"table_rows" yaml:"table_rows"`

	// Charts
	ChartWidth    int     `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight   int     `mapstructure:"chart_height" yaml:"chart_height"`
	RollingWindow int     `mapstructure:"rolling_window" yaml:"rolling_window"`
	TankLevel     float64 `mapstructure:"tank_level" yaml:"tank_level"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Global {
	return &Global{
		DataPath:      DefaultDataPath,
		DropColumns:   []string{"Anomalous"},
		ListenAddr:    ":8501",
		CORSOrigins:   []string{"*"},
		TableRows:     200,
		ChartWidth:    900,
		ChartHeight:   500,
		RollingWindow: 12,
		TankLevel:     60,
		LogLevel:      "info",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.waterdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file (cfgFile or ~/.waterdash/config.yaml) > defaults.
// A .env file in the working directory is read first so its variables take part as env.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("WATERDASH")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("data_path", d.DataPath)
	v.SetDefault("sheet_name", d.SheetName)
	v.SetDefault("drop_columns", d.DropColumns)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("cors_origins", d.CORSOrigins)
	v.SetDefault("table_rows", d.TableRows)
	v.SetDefault("chart_width", d.ChartWidth)
	v.SetDefault("chart_height", d.ChartHeight)
	v.SetDefault("rolling_window", d.RollingWindow)
	v.SetDefault("tank_level", d.TankLevel)
	v.SetDefault("log_level", d.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return &c, nil
}

func (c *Global) normalize() {
	d := Default()
	if c.DataPath == "" {
		c.DataPath = d.DataPath
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.TableRows <= 0 {
		c.TableRows = d.TableRows
	}
	if c.ChartWidth <= 0 {
		c.ChartWidth = d.ChartWidth
	}
	if c.ChartHeight <= 0 {
		c.ChartHeight = d.ChartHeight
	}
	if c.RollingWindow <= 0 {
		c.RollingWindow = d.RollingWindow
	}
	if c.TankLevel < 0 {
		c.TankLevel = 0
	} else if c.TankLevel > 100 {
		c.TankLevel = 100
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".waterdash"), nil
}
