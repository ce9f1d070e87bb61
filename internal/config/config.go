// Package config loads relay server configuration from relay.json or
// relay.yaml, with .env and RELAY_* environment overrides on top.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/relayhttp/relay/internal/errors"
	"github.com/relayhttp/relay/pkg/httpserver"
)

// Candidate config file names, tried in order.
var fileNames = []string{"relay.json", "relay.yaml", "relay.yml"}

// Duration unmarshals from either a number of seconds or a Go duration
// string ("90s", "2m") in JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val) * time.Second)
	case int:
		*d = Duration(time.Duration(val) * time.Second)
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
	return nil
}

// Config is the full relay configuration file.
type Config struct {
	// Name is the service name, used in logs.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Server configures the HTTP transport.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Log configures the application logger.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	configPath string
}

// ServerConfig mirrors the transport options of pkg/httpserver.
type ServerConfig struct {
	// Address is the listen address (default ":8080").
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// FallbackHost backs absolute-URL reconstruction when no Host header
	// is present.
	FallbackHost string `json:"fallback_host,omitempty" yaml:"fallback_host,omitempty"`

	// TrustedProxies lists IPs/CIDRs whose forwarded headers are honored.
	TrustedProxies []string `json:"trusted_proxies,omitempty" yaml:"trusted_proxies,omitempty"`

	// CanonicalizePaths enables 308 redirects to canonical paths.
	CanonicalizePaths bool `json:"canonicalize_paths,omitempty" yaml:"canonicalize_paths,omitempty"`

	ReadTimeout     Duration `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`
	WriteTimeout    Duration `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`
	IdleTimeout     Duration `json:"idle_timeout,omitempty" yaml:"idle_timeout,omitempty"`
	ShutdownTimeout Duration `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json (default text).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Name: "relay",
		Server: ServerConfig{
			Address:      ":8080",
			FallbackHost: "localhost",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load looks for a config file in dir, loads .env from the same directory,
// and applies environment overrides. A missing config file is not an
// error; defaults plus environment apply.
func Load(dir string) (*Config, error) {
	// A .env in the project directory feeds the overrides below. Missing
	// files are fine; a malformed one is not.
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, errors.New("E401").WithDetail("failed to load .env: " + err.Error())
		}
	}

	cfg := New()
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		break
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads one configuration file, choosing the parser by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E401").Wrap(err)
	}

	cfg := New()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E401").
				WithDetail("failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E401").
				WithDetail("failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	return cfg, nil
}

// Path returns the path the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// applyEnv overlays RELAY_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("RELAY_ADDRESS"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("RELAY_FALLBACK_HOST"); v != "" {
		c.Server.FallbackHost = v
	}
	if v := os.Getenv("RELAY_TRUSTED_PROXIES"); v != "" {
		c.Server.TrustedProxies = splitList(v)
	}
	if v := os.Getenv("RELAY_CANONICALIZE_PATHS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.CanonicalizePaths = b
		}
	}
	if v := os.Getenv("RELAY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RELAY_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for hard errors.
func (c *Config) Validate() error {
	if _, port, err := net.SplitHostPort(c.Server.Address); err != nil {
		return errors.New("E402").
			WithDetail("listen address " + strconv.Quote(c.Server.Address) + " is not host:port")
	} else if port == "" {
		return errors.New("E402").WithDetail("listen address has no port")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E401").
			WithDetail("unknown log level " + strconv.Quote(c.Log.Level)).
			WithSuggestion("Use debug, info, warn, or error")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E401").
			WithDetail("unknown log format " + strconv.Quote(c.Log.Format)).
			WithSuggestion("Use text or json")
	}
	return nil
}

// Warnings reports non-fatal configuration smells.
func (c *Config) Warnings() []string {
	var out []string
	if len(c.Server.TrustedProxies) == 0 && c.Server.FallbackHost != "localhost" {
		out = append(out, "no trusted_proxies configured; Forwarded and X-Forwarded-For headers are ignored for client IPs")
	}
	if time.Duration(c.Server.ShutdownTimeout) < 0 {
		out = append(out, "negative shutdown_timeout; the default applies")
	}
	return out
}

// HTTPConfig converts the file representation into transport options.
func (c *Config) HTTPConfig() *httpserver.Config {
	return &httpserver.Config{
		Address:           c.Server.Address,
		FallbackHost:      c.Server.FallbackHost,
		TrustedProxies:    append([]string(nil), c.Server.TrustedProxies...),
		CanonicalizePaths: c.Server.CanonicalizePaths,
		ReadTimeout:       time.Duration(c.Server.ReadTimeout),
		WriteTimeout:      time.Duration(c.Server.WriteTimeout),
		IdleTimeout:       time.Duration(c.Server.IdleTimeout),
		ShutdownTimeout:   time.Duration(c.Server.ShutdownTimeout),
	}
}

// Logger builds the process logger from the log section.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(c.Log.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler).With("service", c.Name)
}
