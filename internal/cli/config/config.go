package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/edfi-tools/apischema/internal/logging"
)

// ConfigName is the base name of the project config file (apischema.yml or apischema.yaml)
const ConfigName = "apischema"

// EnvPrefix prefixes every environment override, e.g. APISCHEMA_OUTPUT_DIR
const EnvPrefix = "APISCHEMA"

// Config represents the apischema configuration
type Config struct {
	Models []string     `mapstructure:"models"`
	Output OutputConfig `mapstructure:"output"`
	Verify bool         `mapstructure:"verify"`
	Log    LogConfig    `mapstructure:"log"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	Pretty   bool   `mapstructure:"pretty"`
	Compress bool   `mapstructure:"compress"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads the configuration from apischema.yml or apischema.yaml in the
// working directory
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads the configuration from path. An empty path searches the
// working directory and falls back to defaults when no file exists.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("models", []string{})
	v.SetDefault("output.dir", "build/apischema")
	v.SetDefault("output.pretty", true)
	v.SetDefault("output.compress", false)
	v.SetDefault("verify", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment overrides: output.dir -> APISCHEMA_OUTPUT_DIR
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
