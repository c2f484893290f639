package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds CLI configuration.
type Config struct {
	Verbose bool
	History HistoryConfig
	Output  OutputConfig
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	Limit int
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Format string
	Sheet  string
}

// loadConfig reads configuration from defaults, an optional config file,
// DATAGRID_ env vars and flags, in increasing priority.
func loadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("verbose", false)
	v.SetDefault("history.limit", 1000)
	v.SetDefault("output.format", "tsv")
	v.SetDefault("output.sheet", "Sheet1")

	if path == "" {
		path = os.Getenv("DATAGRID_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "datagrid"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DATAGRID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for key, name := range map[string]string{
			"verbose":       "verbose",
			"history.limit": "history-limit",
			"output.format": "format",
			"output.sheet":  "sheet",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	switch c.Output.Format {
	case "tsv", "xlsx":
	default:
		return Config{}, fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return c, nil
}
