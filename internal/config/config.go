package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"contractalloc/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Engine   EngineConfig
	LogLevel string
}

// DataConfig holds the workbook locations
type DataConfig struct {
	InputFile     string
	OutputFind    string
	OutputReplace string
}

// EngineConfig holds the settings used to launch the optimization engine
type EngineConfig struct {
	Command       string
	Args          []string
	ProjectFile   string
	IdentifierSet string
	Procedure     string
	ExchangeDir   string
	Timeout       time.Duration
}

// Load reads configuration from environment variables. Callers load .env first.
func Load() (*Config, error) {
	timeout, err := getEnvDuration("ENGINE_TIMEOUT", 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load engine configuration")
	}

	config := &Config{
		Data:     *loadDataConfig(),
		Engine:   *loadEngineConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
	config.Engine.Timeout = timeout

	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		InputFile:     getEnvOrDefault("DATA_FILE", filepath.Join("AIMMS-project", "DefaultData.xlsx")),
		OutputFind:    getEnvOrDefault("OUTPUT_FIND", "Data"),
		OutputReplace: getEnvOrDefault("OUTPUT_REPLACE", "Data_Solution"),
	}
}

func loadEngineConfig() *EngineConfig {
	return &EngineConfig{
		Command:       os.Getenv("ENGINE_COMMAND"),
		Args:          strings.Fields(os.Getenv("ENGINE_ARGS")),
		ProjectFile:   getEnvOrDefault("ENGINE_PROJECT_FILE", filepath.Join("AIMMS-project", "ContractAllocation.aimms")),
		IdentifierSet: getEnvOrDefault("ENGINE_IDENTIFIER_SET", "AllIdentifiers"),
		Procedure:     getEnvOrDefault("ENGINE_PROCEDURE", "MainExecution"),
		ExchangeDir:   os.Getenv("ENGINE_EXCHANGE_DIR"),
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Data.InputFile) == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if c.Data.OutputFind == "" {
		return errors.ConfigInvalid("OUTPUT_FIND cannot be empty")
	}
	if c.Data.OutputFind == c.Data.OutputReplace {
		return errors.ConfigInvalid("OUTPUT_REPLACE must differ from OUTPUT_FIND or the input would be overwritten")
	}
	if c.Engine.Timeout < 0 {
		return errors.ConfigInvalid("ENGINE_TIMEOUT cannot be negative")
	}
	return nil
}

// RequireEngine reports whether the engine can be launched; only runs need it.
func (c *Config) RequireEngine() error {
	if strings.TrimSpace(c.Engine.Command) == "" {
		return errors.ConfigInvalid("ENGINE_COMMAND is required to run the model")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	// bare numbers are seconds
	secs, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a duration such as 90s or 15m")
	}
	return time.Duration(secs) * time.Second, nil
}
