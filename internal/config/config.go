// ABOUTME: Server configuration loaded once at startup
// ABOUTME: Environment variables via caarlos0/env, overridden by command-line flags
package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the immutable server configuration
type Config struct {
	Port  int    `env:"PORT"              envDefault:"5000"`
	Host  string `env:"STS_BRIDGE_HOST"   envDefault:"0.0.0.0"`
	Name  string `env:"STS_BRIDGE_NAME"`
	Model string `env:"STS_BRIDGE_MODEL"  envDefault:"gemini-2.0-flash-exp"`

	KeySource  string `env:"STS_BRIDGE_KEY_SOURCE" envDefault:"env"`
	LiteralKey string // -api-key, defaults to the build-time key

	Resample        bool          `env:"STS_BRIDGE_RESAMPLE"          envDefault:"false"`
	MaxUploadBytes  int64         `env:"STS_BRIDGE_MAX_UPLOAD_BYTES"  envDefault:"33554432"`
	GenerateTimeout time.Duration `env:"STS_BRIDGE_GENERATE_TIMEOUT"  envDefault:"0s"`

	MDNS      bool `env:"STS_BRIDGE_MDNS"      envDefault:"true"`
	WebSocket bool `env:"STS_BRIDGE_WEBSOCKET" envDefault:"true"`

	LogFile string `env:"STS_BRIDGE_LOG_FILE" envDefault:"sts-bridge.log"`
	TUI     bool
	Debug   bool `env:"STS_BRIDGE_DEBUG"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment (seeded from an optional .env file), applies flag
// overrides from args and validates the result
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	if err := LoadDotEnv(""); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.LiteralKey = BuildAPIKey

	noMDNS := !cfg.MDNS
	noWS := !cfg.WebSocket

	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Bind address")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "Server friendly name (default: hostname-sts-bridge)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Gemini model identifier")
	fs.StringVar(&cfg.KeySource, "key-source", cfg.KeySource, "API key source: env or literal")
	fs.StringVar(&cfg.LiteralKey, "api-key", cfg.LiteralKey, "API key used when -key-source=literal")
	fs.BoolVar(&cfg.Resample, "resample", cfg.Resample, "Resample model audio to 22050 Hz instead of relabelling it")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Maximum upload size in bytes")
	fs.DurationVar(&cfg.GenerateTimeout, "generate-timeout", cfg.GenerateTimeout, "Model call timeout (0 disables)")
	fs.BoolVar(&noMDNS, "no-mdns", noMDNS, "Disable mDNS advertisement")
	fs.BoolVar(&noWS, "no-ws", noWS, "Disable the /ws endpoint")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Show the status display")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.MDNS = !noMDNS
	cfg.WebSocket = !noWS

	if cfg.Name == "" {
		cfg.Name = DefaultName()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultName returns "<hostname>-sts-bridge"
func DefaultName() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-sts-bridge", hostname)
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.KeySource != KeySourceEnv && c.KeySource != KeySourceLiteral {
		return fmt.Errorf("invalid key source %q (supported: %s, %s)", c.KeySource, KeySourceEnv, KeySourceLiteral)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid max upload size: %d", c.MaxUploadBytes)
	}
	if c.GenerateTimeout < 0 {
		return fmt.Errorf("invalid generate timeout: %v", c.GenerateTimeout)
	}
	return nil
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
