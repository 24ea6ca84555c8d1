package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/database"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"BudgetBuddy"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
		Path     string `envconfig:"DB_PATH" default:"budgetbuddy.db"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"budgetbuddy"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
		Metrics     bool          `envconfig:"METRICS_ENABLED" default:"true"`
	}

	Tracker struct {
		StagePolicy    string `envconfig:"STAGE_POLICY" default:"instantaneous"`
		SeedSampleData bool   `envconfig:"SEED_SAMPLE_DATA" default:"false"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"budgetbuddy.events"`
	}
}

// Driver returns the configured database driver.
func (c *Config) Driver() (database.Driver, error) {
	return database.ParseDriver(c.DB.Driver)
}

// ConnectionString is the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.DB.Driver == string(database.DriverSQLite) {
		return database.SQLiteDSN(c.DB.Path)
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) StagePolicy() (progression.Policy, error) {
	return progression.ParsePolicy(c.Tracker.StagePolicy)
}

func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.App.LogLevel))); err != nil {
		return slog.LevelInfo
	}

	return level
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if _, err := cfg.Driver(); err != nil {
		return nil, err
	}

	if _, err := cfg.StagePolicy(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
