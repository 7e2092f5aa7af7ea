package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the Blueprint project configuration
type Config struct {
	ProjectName     string            `mapstructure:"project_name"`
	Module          string            `mapstructure:"module"`
	Input           string            `mapstructure:"input"`
	Output          string            `mapstructure:"output"`
	PayloadMode     string            `mapstructure:"payload_mode"`
	PluralOverrides map[string]string `mapstructure:"plural_overrides"`
	Database        DatabaseConfig    `mapstructure:"database"`
	Server          ServerConfig      `mapstructure:"server"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ServerConfig configures the preview server
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// Load loads the configuration from blueprint.yml or blueprint.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("input", "jdl")
	v.SetDefault("output", "gen")
	v.SetDefault("payload_mode", "embedded")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.host", "localhost")

	// Set config name and paths
	v.SetConfigName("blueprint")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	// First check environment variable
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// Then check config file
	cfg, err := Load()
	if err != nil {
		return ""
	}

	return cfg.Database.URL
}

// InProject checks if the current directory is a Blueprint project
func InProject() bool {
	if _, err := os.Stat("blueprint.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("blueprint.yaml"); err == nil {
		return true
	}
	return false
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.PayloadMode {
	case "", "embedded", "ids":
	default:
		return fmt.Errorf("payload_mode must be \"embedded\" or \"ids\", got: %s", cfg.PayloadMode)
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got: %d", cfg.Server.Port)
	}

	return nil
}
