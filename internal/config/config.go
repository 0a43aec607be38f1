package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds the process settings read from the environment.
type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,default=3001"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=*"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	TeacherName    string `env:"TEACHER_NAME,default=Teacher"`
}

// Load reads an optional .env file, then the process environment.
// A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be expressed as env tags.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if len(c.OriginPatterns()) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// OriginPatterns splits ALLOWED_ORIGINS into websocket origin patterns.
// Scheme prefixes are stripped since the websocket library matches on host.
func (c *Config) OriginPatterns() []string {
	var patterns []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		origin = strings.TrimPrefix(origin, "https://")
		origin = strings.TrimPrefix(origin, "http://")
		origin = strings.TrimSuffix(origin, "/")
		if origin != "" {
			patterns = append(patterns, origin)
		}
	}
	return patterns
}
