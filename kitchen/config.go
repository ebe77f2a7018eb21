package kitchen

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/kitchen-service/kitchen/kitchen/config"
	"github.com/kitchen-service/kitchen/kitchen/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Config struct {
	Log LogConfig         `toml:"log"`
	DB  database.DBConfig `toml:"db"`
	Web WebConfig         `toml:"web"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	SessionKey     string `toml:"session_key"`
	Environment    string `toml:"environment"`
	SessionHours   int    `toml:"session_hours"`
	PageSize       int    `toml:"page_size"`
	CSRF           bool   `toml:"csrf"`
	AllowOrigins   string `toml:"allow_origins"`
	LoginRateLimit int    `toml:"login_rate_limit"`
}

// DefaultConfig returns the values used for keys missing from the config file.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "text",
		},
		DB: database.DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "kitchen",
			Database: "kitchen",
			PoolSize: 10,
		},
		Web: WebConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			Environment:    "development",
			SessionHours:   config.DefaultSessionHours,
			PageSize:       config.DefaultPageSize,
			CSRF:           true,
			AllowOrigins:   "http://localhost:8000",
			LoginRateLimit: config.DefaultLoginRateLimit,
		},
	}
}

// ApplyEnv overrides file values with KITCHEN_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("KITCHEN_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("KITCHEN_DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid KITCHEN_DB_PORT %q: %w", v, err)
		}
		c.DB.Port = port
	}
	if v := os.Getenv("KITCHEN_DB_USER"); v != "" {
		c.DB.User = v
	}
	if v := os.Getenv("KITCHEN_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("KITCHEN_DB_NAME"); v != "" {
		c.DB.Database = v
	}
	if v := os.Getenv("KITCHEN_SESSION_KEY"); v != "" {
		c.Web.SessionKey = v
	}
	if v := os.Getenv("KITCHEN_WEB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid KITCHEN_WEB_PORT %q: %w", v, err)
		}
		c.Web.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.Web.SessionKey) < config.MinSessionKeyLength {
		errs = append(errs, fmt.Errorf("web.session_key must be at least %d bytes", config.MinSessionKeyLength))
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		errs = append(errs, fmt.Errorf("web.port %d out of range", c.Web.Port))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("db.port %d out of range", c.DB.Port))
	}
	switch c.Web.Environment {
	case "development", "production":
	default:
		errs = append(errs, fmt.Errorf("web.environment must be development or production, got %q", c.Web.Environment))
	}
	if c.Web.PageSize <= 0 || c.Web.PageSize > config.MaxPageSize {
		c.Web.PageSize = config.DefaultPageSize
	}
	if c.Web.SessionHours <= 0 {
		c.Web.SessionHours = config.DefaultSessionHours
	}
	if c.Web.LoginRateLimit <= 0 {
		c.Web.LoginRateLimit = config.DefaultLoginRateLimit
	}
	return errors.Join(errs...)
}
