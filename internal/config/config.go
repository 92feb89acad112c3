// Package config loads service settings from an optional YAML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Summary   SummaryConfig   `yaml:"summary"`
}

type ServerConfig struct {
	Port           int      `yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// TrustedProxies lists the CIDRs of reverse proxies allowed to report the
	// client address through X-Forwarded-For.
	TrustedProxies []string `yaml:"trusted_proxies" validate:"dive,cidr"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver" validate:"oneof=postgres sqlite memory"`
	Host       string `yaml:"host" validate:"required_if=Driver postgres"`
	Port       string `yaml:"port" validate:"required_if=Driver postgres"`
	User       string `yaml:"user" validate:"required_if=Driver postgres"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name" validate:"required_if=Driver postgres"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type LogConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`
}

type RateLimitConfig struct {
	// RPS is the sustained submissions per second allowed per client; 0 disables limiting.
	RPS   float64 `yaml:"rps" validate:"gte=0"`
	Burst int     `yaml:"burst" validate:"gte=0"`
}

type SummaryConfig struct {
	Concurrency int `yaml:"concurrency" validate:"min=1,max=64"`
}

var validate = validator.New()

func defaults() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}},
		Database:  DatabaseConfig{Driver: DriverMemory, Port: "5432", SQLitePath: "polls.db"},
		Log:       LogConfig{Format: "text"},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		Summary:   SummaryConfig{Concurrency: 4},
	}
}

// Load builds the configuration. path may be empty, in which case only the
// defaults, .env and the environment are used. A missing .env is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.Host, "POSTGRES_HOST")
	setString(&c.Database.Port, "POSTGRES_PORT")
	setString(&c.Database.User, "POSTGRES_USER")
	setString(&c.Database.Password, "POSTGRES_PASSWORD")
	setString(&c.Database.Name, "POSTGRES_DB")
	setString(&c.Database.SQLitePath, "SQLITE_PATH")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("TRUSTED_PROXIES"); ok && v != "" {
		c.Server.TrustedProxies = splitList(v)
	}

	return errors.Join(
		setInt(&c.Server.Port, "PORT"),
		setFloat(&c.RateLimit.RPS, "RATE_LIMIT_RPS"),
		setInt(&c.RateLimit.Burst, "RATE_LIMIT_BURST"),
		setInt(&c.Summary.Concurrency, "SUMMARY_CONCURRENCY"),
	)
}

// TrustedProxyPrefixes parses Server.TrustedProxies.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.Server.TrustedProxies))
	for _, cidr := range c.Server.TrustedProxies {
		p, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
		prefixes = append(prefixes, p.Masked())
	}
	return prefixes, nil
}

// PostgresDSN is the lib/pq connection string for the configured database.
func (c *Config) PostgresDSN() string {
	d := c.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

// NewLogger returns a slog logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("%s must be a number: %w", key, err)
	}
	*dst = f
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
