// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	RefData  RefDataConfig  `mapstructure:"refdata"`
	Finance  FinanceConfig  `mapstructure:"finance"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds sqlite configuration.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// RefDataConfig points at the reference CSV directory.
type RefDataConfig struct {
	Dir string `mapstructure:"dir"`
}

// FinanceConfig holds deterministic math settings.
type FinanceConfig struct {
	TaxTolerance float64 `mapstructure:"tax_tolerance"`
}

// WorkflowConfig holds the approval gate parameters.
type WorkflowConfig struct {
	AssumedTaxRate    float64 `mapstructure:"assumed_tax_rate"`
	LargeTxnThreshold float64 `mapstructure:"large_txn_threshold"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configuration from configPath, applying defaults and
// environment overrides.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/sentinel.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("refdata.dir", "data")

	viper.SetDefault("finance.tax_tolerance", 0.05)

	viper.SetDefault("workflow.assumed_tax_rate", 0.21)
	viper.SetDefault("workflow.large_txn_threshold", 10000)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("refdata.dir", "REFDATA_DIR")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate checks the loaded configuration for obvious misuse.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Finance.TaxTolerance < 0 {
		return fmt.Errorf("finance.tax_tolerance must not be negative")
	}
	if c.Workflow.AssumedTaxRate <= 0 || c.Workflow.AssumedTaxRate >= 1 {
		return fmt.Errorf("workflow.assumed_tax_rate must be between 0 and 1")
	}
	if c.Workflow.LargeTxnThreshold <= 0 {
		return fmt.Errorf("workflow.large_txn_threshold must be positive")
	}
	return nil
}
