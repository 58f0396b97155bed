// Package config loads the server configuration from defaults, an optional
// YAML file and the environment, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zbdpay/zbd-mcp/internal/tools/batch"
	"github.com/zbdpay/zbd-mcp/internal/zbd"
)

// Transports
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Environment variables read by Load.
const (
	EnvAPIKey         = "ZBD_API_KEY"
	EnvBaseURL        = "ZBD_BASE_URL"
	EnvTimeout        = "ZBD_TIMEOUT"
	EnvMaxBatchItems  = "ZBD_MAX_BATCH_ITEMS"
	EnvTransport      = "MCP_TRANSPORT"
	EnvHTTPAddr       = "MCP_HTTP_ADDR"
	EnvReadOnly       = "MCP_READ_ONLY"
	EnvMetricsEnabled = "METRICS_ENABLED"
	EnvMetricsAddr    = "METRICS_ADDR"
)

// ErrMissingAPIKey is returned by Validate when an API key is required but unset.
var ErrMissingAPIKey = errors.New("ZBD API key is required (set ZBD_API_KEY or zbd.api_key)")

// Config is the complete server configuration.
type Config struct {
	ZBD     ZBDConfig     `yaml:"zbd"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ZBDConfig configures the ZBD API client.
type ZBDConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// MaxBatchItems caps batch tools, 1 to 10.
	MaxBatchItems int `yaml:"max_batch_items"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	Transport        string `yaml:"transport"`
	HTTPAddr         string `yaml:"http_addr"`
	ReadOnly         bool   `yaml:"read_only"`
	DisableStreaming bool   `yaml:"disable_streaming"`
	Debug            bool   `yaml:"debug"`
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool `yaml:"enabled"`

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ZBD: ZBDConfig{
			BaseURL:       zbd.DefaultBaseURL,
			Timeout:       zbd.DefaultTimeout,
			MaxBatchItems: batch.DefaultMaxItems,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			HTTPAddr:  ":8080",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when
// path is empty) and then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("config parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode unmarshals data over cfg. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields with the environment variables that are set.
func (c *Config) ApplyEnv() error {
	setString(EnvAPIKey, &c.ZBD.APIKey)
	setString(EnvBaseURL, &c.ZBD.BaseURL)
	setString(EnvTransport, &c.Server.Transport)
	setString(EnvHTTPAddr, &c.Server.HTTPAddr)
	setString(EnvMetricsAddr, &c.Metrics.Addr)

	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.ZBD.Timeout = d
	}
	if v, ok := lookup(EnvMaxBatchItems); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxBatchItems, v, err)
		}
		c.ZBD.MaxBatchItems = n
	}
	if err := setBool(EnvReadOnly, &c.Server.ReadOnly); err != nil {
		return err
	}
	return setBool(EnvMetricsEnabled, &c.Metrics.Enabled)
}

// Validate checks the configuration. requireKey is set for commands that
// talk to the ZBD API.
func (c *Config) Validate(requireKey bool) error {
	if requireKey && c.ZBD.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Server.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", c.Server.Transport, TransportStdio, TransportStreamableHTTP)
	}
	if c.ZBD.MaxBatchItems < 1 || c.ZBD.MaxBatchItems > batch.DefaultMaxItems {
		return fmt.Errorf("max batch items must be between 1 and %d, got %d", batch.DefaultMaxItems, c.ZBD.MaxBatchItems)
	}
	if c.ZBD.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.ZBD.Timeout)
	}
	u, err := url.Parse(c.ZBD.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.ZBD.BaseURL)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

func setString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}
