package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Session backends understood by the server.
const (
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

// Config holds all service configuration. Values come from environment
// variables, optionally overlaid by the YAML file named in VV_CONFIG_FILE.
type Config struct {
	Port            string        `yaml:"port"`
	PostgresDSN     string        `yaml:"postgres_dsn"`
	SessionBackend  string        `yaml:"session_backend"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	CookieSecure    bool          `yaml:"cookie_secure"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	BrowseLimit     int           `yaml:"browse_limit"`
	LogLevel        string        `yaml:"log_level"`
	LogJSON         bool          `yaml:"log_json"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Load() (*Config, error) {
	var env envParser
	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		PostgresDSN:     getenv("POSTGRES_DSN", ""),
		SessionBackend:  strings.ToLower(getenv("SESSION_BACKEND", SessionBackendPostgres)),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		SessionTTL:      env.duration("SESSION_TTL", 24*time.Hour),
		CookieSecure:    getenv("COOKIE_SECURE", "false") == "true",
		CORSOrigins:     splitList(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		BrowseLimit:     env.integer("BROWSE_LIMIT", 100),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogJSON:         getenv("LOG_JSON", "false") == "true",
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if path := os.Getenv("VV_CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayFile replaces any field set in the YAML file. Fields absent from
// the file keep their environment/default value.
func (c *Config) overlayFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))
	return nil
}

// Validate checks required fields and ranges. It does not mutate the config.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	switch c.SessionBackend {
	case SessionBackendPostgres:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.BrowseLimit < 1 || c.BrowseLimit > 1000 {
		return errors.New("browse limit must be between 1 and 1000")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envParser reads typed variables and keeps every malformed value it saw,
// so Load can report them together.
type envParser struct {
	errs []error
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return fallback
	}
	return d
}

func (p *envParser) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
