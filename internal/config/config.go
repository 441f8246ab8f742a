package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Closing   ClosingConfig   `mapstructure:"closing"`
	Clock     ClockConfig     `mapstructure:"clock"`
	Operation OperationConfig `mapstructure:"operation"`
	Export    ExportConfig    `mapstructure:"export"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds the decision audit database configuration.
// Path ":memory:" keeps the audit trail for the lifetime of the process only.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// ClosingConfig holds the closing calendar
type ClosingConfig struct {
	// ActiveYear is the open reporting year; earlier years are locked
	ActiveYear int `mapstructure:"active_year"`
}

// ClockConfig pins "today" for the demo data set
type ClockConfig struct {
	FixedDate string `mapstructure:"fixed_date"`
	Timezone  string `mapstructure:"timezone"`
}

// OperationConfig holds the simulated backend latencies
type OperationConfig struct {
	ConfirmDelay  time.Duration `mapstructure:"confirm_delay"`
	ChatDelay     time.Duration `mapstructure:"chat_delay"`
	Retention     time.Duration `mapstructure:"retention"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ExportConfig holds workbook export configuration
type ExportConfig struct {
	CompanyName string `mapstructure:"company_name"`
	OutputDir   string `mapstructure:"output_dir"`
}

// Load loads configuration from an optional YAML file, a .env file in the
// working directory when present, and environment variables
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.path", ":memory:")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", time.Duration(0))

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("closing.active_year", 2025)

	v.SetDefault("clock.fixed_date", "2026-01-13")
	v.SetDefault("clock.timezone", "")

	v.SetDefault("operation.confirm_delay", time.Second)
	v.SetDefault("operation.chat_delay", 800*time.Millisecond)
	v.SetDefault("operation.retention", 15*time.Minute)
	v.SetDefault("operation.sweep_interval", time.Minute)

	v.SetDefault("export.company_name", "Tasco Joint Stock Company")
	v.SetDefault("export.output_dir", "exports")
}

// bindEnvVars maps CLOSING_SECTION_KEY variables onto the configuration and
// keeps the conventional PORT and LOG_LEVEL names working
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("CLOSING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("server.port", "CLOSING_SERVER_PORT", "PORT")
	v.BindEnv("logger.level", "CLOSING_LOGGER_LEVEL", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Closing.ActiveYear < 2000 || c.Closing.ActiveYear > 2100 {
		return fmt.Errorf("closing.active_year must be between 2000 and 2100")
	}
	if c.Operation.ConfirmDelay < 0 || c.Operation.ChatDelay < 0 {
		return fmt.Errorf("operation delays must not be negative")
	}
	if c.Operation.Retention <= 0 {
		return fmt.Errorf("operation.retention must be positive")
	}
	if c.Operation.SweepInterval <= 0 {
		return fmt.Errorf("operation.sweep_interval must be positive")
	}
	if c.Export.CompanyName == "" {
		return fmt.Errorf("export.company_name is required")
	}
	return nil
}
