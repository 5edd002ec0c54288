// Package config merges command line flags, CLINICSCHEMA_* environment
// variables and an optional clinicschema.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CLINICSCHEMA_DB_URL
const EnvPrefix = "CLINICSCHEMA"

// Config holds every setting a subcommand may read. Keys match flag names.
type Config struct {
	DatabaseURL   string `mapstructure:"db-url"`
	Dialect       string `mapstructure:"dialect"`
	Format        string `mapstructure:"format"`
	Output        string `mapstructure:"output"`
	OutputDir     string `mapstructure:"output-dir"`
	Tables        string `mapstructure:"tables"`
	ExcludeTables string `mapstructure:"exclude-tables"`
	SchemaName    string `mapstructure:"schema"`
	LogLevel      string `mapstructure:"log-level"`

	SplitThreshold int  `mapstructure:"split-threshold"`
	Drop           bool `mapstructure:"drop"`
	Force          bool `mapstructure:"force"`
}

// Load resolves settings with flag > environment > file > flag default precedence.
// configFile may be empty, in which case clinicschema.yaml is looked up in the
// working directory and skipped when absent.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("clinicschema")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
