// Package config resolves the process configuration once at startup: a YAML
// file, then a .env file, then environment variables, each overriding the last.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/db"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"
	// PathEnv names the config file when no -config flag is given.
	PathEnv = "BIZNIZ_CONFIG"
)

// Config struct for YAML configuration. The YAML keys double as the names of
// the environment variables that override them.
type Config struct {
	HTTPPort       int      `yaml:"HTTP_PORT"`
	GRPCPort       int      `yaml:"GRPC_PORT"`
	APIBasePath    string   `yaml:"API_BASE_PATH"`
	AllowedOrigins []string `yaml:"ALLOWED_ORIGINS"`

	DBDriver   string `yaml:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	SQLitePath string `yaml:"SQLITE_PATH"`

	KafkaBrokers  []string `yaml:"KAFKA_BROKERS"`
	Topic         string   `yaml:"TOPIC"`
	ConsumerGroup string   `yaml:"CONSUMER_GROUP"`

	RedisURL string        `yaml:"REDIS_URL"`
	CacheTTL time.Duration `yaml:"CACHE_TTL"`

	LogLevel string `yaml:"LOG_LEVEL"`
}

func Default() *Config {
	return &Config{
		HTTPPort:       5000,
		GRPCPort:       5001,
		APIBasePath:    "/api",
		AllowedOrigins: []string{"http://localhost:3000"},
		DBDriver:       db.DriverPostgres,
		DBHost:         "localhost",
		DBPort:         5432,
		DBUser:         "postgres",
		DBName:         "bizniz",
		DBSSLMode:      "disable",
		Topic:          "bizniz-events",
		ConsumerGroup:  "bizniz-reconciler",
		CacheTTL:       5 * time.Minute,
		LogLevel:       "info",
	}
}

// ResolvePath picks the config file: the flag value, then BIZNIZ_CONFIG, then
// DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults and applies environment overrides. A
// missing file at DefaultPath is not an error; any other missing path is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"API_BASE_PATH":  &c.APIBasePath,
		"DB_DRIVER":      &c.DBDriver,
		"DB_HOST":        &c.DBHost,
		"DB_USER":        &c.DBUser,
		"DB_PASSWORD":    &c.DBPassword,
		"DB_NAME":        &c.DBName,
		"DB_SSLMODE":     &c.DBSSLMode,
		"SQLITE_PATH":    &c.SQLitePath,
		"TOPIC":          &c.Topic,
		"CONSUMER_GROUP": &c.ConsumerGroup,
		"REDIS_URL":      &c.RedisURL,
		"LOG_LEVEL":      &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HTTP_PORT": &c.HTTPPort,
		"GRPC_PORT": &c.GRPCPort,
		"DB_PORT":   &c.DBPort,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = n
		}
	}

	lists := map[string]*[]string{
		"ALLOWED_ORIGINS": &c.AllowedOrigins,
		"KAFKA_BROKERS":   &c.KafkaBrokers,
	}
	for key, dst := range lists {
		if v, ok := lookup(key); ok {
			*dst = splitList(v)
		}
	}

	if v, ok := lookup("CACHE_TTL"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = d
	}
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

func (c *Config) Validate() error {
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid GRPC_PORT %d", c.GRPCPort)
	}
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.APIBasePath != "" && !strings.HasPrefix(c.APIBasePath, "/") {
		return fmt.Errorf("API_BASE_PATH must start with /: %q", c.APIBasePath)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Database returns the store settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:     c.DBDriver,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		DBName:     c.DBName,
		SSLMode:    c.DBSSLMode,
		SQLitePath: c.SQLitePath,
	}
}

// NewLogger builds a production zap logger, or a development one for debug.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
