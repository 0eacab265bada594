// Package models - Service configuration and operational settings.
// This file defines the configuration structures for every relay component.
//
// Configuration Philosophy:
// - Hierarchical configuration with logical grouping (server, gate, notify, etc.)
// - Defaults that reproduce the browser extension's behaviour out of the box
// - Validation to catch misconfigurations before the server starts
// - Admission constants are read once at startup and never change at runtime
package models

import (
	"errors"
	"fmt"
	"time"
)

// Storage type constants
const (
	StorageTypeJSON     = "json"
	StorageTypeMemory   = "memory"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// Admission defaults. The quota and window reproduce the limits the
// extension enforced client-side.
const (
	DefaultQuota           = 8
	DefaultWindow          = 60 * time.Second
	DefaultBroadcastPeriod = time.Second
)

// Config is the root configuration structure containing all service settings.
//
// Configuration Structure:
// - Server: HTTP server and network settings
// - Storage: Settings persistence backend
// - Gate: Admission quota, window and status broadcast period
// - Translation: Upstream provider defaults
// - Notify: Observer transports (WebSocket, Redis)
// - Logging: Structured logging and output configuration
// - Metrics / Observability: Prometheus and OpenTelemetry
type Config struct {
	Server        ServerConfig        `yaml:"server" json:"server"`               // HTTP server configuration
	Storage       StorageConfig       `yaml:"storage" json:"storage"`             // Settings persistence
	Gate          GateConfig          `yaml:"gate" json:"gate"`                   // Admission gate
	Translation   TranslationConfig   `yaml:"translation" json:"translation"`     // Upstream provider
	Notify        NotifyConfig        `yaml:"notify" json:"notify"`               // Observer transports
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`             // Logging and output configuration
	Metrics       MetricsConfig       `yaml:"metrics" json:"metrics"`             // Prometheus endpoint
	Observability ObservabilityConfig `yaml:"observability" json:"observability"` // OpenTelemetry
}

type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	Host         string        `yaml:"host" json:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	TLSEnabled   bool          `yaml:"tls_enabled" json:"tls_enabled"`
	TLSCertFile  string        `yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile   string        `yaml:"tls_key_file" json:"tls_key_file"`
	CORS         CORSConfig    `yaml:"cors" json:"cors"`
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" json:"max_age"`
}

type StorageConfig struct {
	Type     string         `yaml:"type" json:"type"`
	Path     string         `yaml:"path" json:"path"`
	Database DatabaseConfig `yaml:"database" json:"database"`
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
}

// GateConfig holds the admission constants. A request is admitted when fewer
// than Quota requests were admitted during the trailing Window.
type GateConfig struct {
	Quota           int           `yaml:"quota" json:"quota"`
	Window          time.Duration `yaml:"window" json:"window"`
	BroadcastPeriod time.Duration `yaml:"broadcast_period" json:"broadcast_period"`
}

// TranslationConfig configures the upstream translation provider client.
type TranslationConfig struct {
	DefaultAPIURL  string        `yaml:"default_api_url" json:"default_api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	ProbeText      string        `yaml:"probe_text" json:"probe_text"`
	ProbeLanguage  string        `yaml:"probe_language" json:"probe_language"`
}

type NotifyConfig struct {
	WebSocket WebSocketConfig `yaml:"websocket" json:"websocket"`
	Redis     RedisConfig     `yaml:"redis" json:"redis"`
}

type WebSocketConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	SendBuffer   int           `yaml:"send_buffer" json:"send_buffer"`
	PingInterval time.Duration `yaml:"ping_interval" json:"ping_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	PoolSize int    `yaml:"pool_size" json:"pool_size"`
	Channel  string `yaml:"channel" json:"channel"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Port    int    `yaml:"port" json:"port"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" json:"tracing"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
}

// NewDefaultConfig creates a configuration with ready-to-run defaults.
//
// Default Values Rationale:
// - Port 8080: Standard non-privileged HTTP port
// - Memory storage: Settings survive only as long as the process, like the extension's session
// - Quota 8 per 60s, broadcast every 1s: The extension's client-side limits
// - WebSocket observers on, Redis off: No external dependencies required
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			TLSEnabled:   false,
			CORS: CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         86400,
			},
		},
		Storage: StorageConfig{
			Type: StorageTypeMemory,
			Path: "./data/settings.json",
			Database: DatabaseConfig{
				MaxOpenConns:    5,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Gate: GateConfig{
			Quota:           DefaultQuota,
			Window:          DefaultWindow,
			BroadcastPeriod: DefaultBroadcastPeriod,
		},
		Translation: TranslationConfig{
			DefaultAPIURL:  DefaultAPIURL,
			RequestTimeout: 30 * time.Second,
			ProbeText:      "Hello, world!",
			ProbeLanguage:  "ES",
		},
		Notify: NotifyConfig{
			WebSocket: WebSocketConfig{
				Enabled:      true,
				SendBuffer:   16,
				PingInterval: 30 * time.Second,
				WriteTimeout: 10 * time.Second,
			},
			Redis: RedisConfig{
				Enabled:  false,
				Addr:     "localhost:6379",
				PoolSize: 10,
				Channel:  "translator:events",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9090,
		},
		Observability: ObservabilityConfig{
			ServiceName: "translator",
			Tracing: TracingConfig{
				Enabled:    false,
				Exporter:   "stdout",
				SampleRate: 1.0,
			},
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}

	if err := c.Gate.Validate(); err != nil {
		return fmt.Errorf("invalid gate config: %w", err)
	}

	if err := c.Translation.Validate(); err != nil {
		return fmt.Errorf("invalid translation config: %w", err)
	}

	if err := c.Notify.Validate(); err != nil {
		return fmt.Errorf("invalid notify config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if sc.Host == "" {
		return errors.New("host cannot be empty")
	}

	if sc.ReadTimeout < 0 {
		return errors.New("read timeout cannot be negative")
	}

	if sc.WriteTimeout < 0 {
		return errors.New("write timeout cannot be negative")
	}

	if sc.IdleTimeout < 0 {
		return errors.New("idle timeout cannot be negative")
	}

	if sc.TLSEnabled {
		if sc.TLSCertFile == "" {
			return errors.New("TLS cert file is required when TLS is enabled")
		}
		if sc.TLSKeyFile == "" {
			return errors.New("TLS key file is required when TLS is enabled")
		}
	}

	return nil
}

func (stc *StorageConfig) Validate() error {
	validTypes := []string{StorageTypeJSON, StorageTypeMemory, StorageTypePostgres, StorageTypeSQLite}
	found := false
	for _, vt := range validTypes {
		if stc.Type == vt {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid storage type: %s", stc.Type)
	}

	if stc.Type == StorageTypeJSON && stc.Path == "" {
		return errors.New("path is required for JSON storage")
	}

	if (stc.Type == StorageTypePostgres || stc.Type == StorageTypeSQLite) && stc.Database.DSN == "" {
		return errors.New("database DSN is required for database storage")
	}

	return nil
}

func (gc *GateConfig) Validate() error {
	if gc.Quota <= 0 {
		return errors.New("quota must be positive")
	}

	if gc.Window <= 0 {
		return errors.New("window must be positive")
	}

	if gc.Window%time.Millisecond != 0 {
		return errors.New("window must be a whole number of milliseconds")
	}

	if gc.BroadcastPeriod <= 0 {
		return errors.New("broadcast period must be positive")
	}

	return nil
}

func (tc *TranslationConfig) Validate() error {
	if tc.DefaultAPIURL == "" {
		return errors.New("default API URL cannot be empty")
	}

	if tc.RequestTimeout < 0 {
		return errors.New("request timeout cannot be negative")
	}

	if tc.ProbeText == "" {
		return errors.New("probe text cannot be empty")
	}

	if tc.ProbeLanguage == "" {
		return errors.New("probe language cannot be empty")
	}

	return nil
}

func (nc *NotifyConfig) Validate() error {
	if nc.WebSocket.Enabled {
		if nc.WebSocket.SendBuffer <= 0 {
			return errors.New("websocket send buffer must be positive")
		}
		if nc.WebSocket.PingInterval <= 0 {
			return errors.New("websocket ping interval must be positive")
		}
	}

	if nc.Redis.Enabled {
		if nc.Redis.Addr == "" {
			return errors.New("Redis address is required when redis notifications are enabled")
		}
		if nc.Redis.Channel == "" {
			return errors.New("Redis channel is required when redis notifications are enabled")
		}
	}

	return nil
}

func (lc *LoggingConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	found := false
	for _, vl := range validLevels {
		if lc.Level == vl {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}

	validFormats := []string{"json", "text"}
	found = false
	for _, vf := range validFormats {
		if lc.Format == vf {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log format: %s", lc.Format)
	}

	validOutputs := []string{"stdout", "stderr", "file"}
	found = false
	for _, vo := range validOutputs {
		if lc.Output == vo {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log output: %s", lc.Output)
	}

	if lc.Output == "file" && lc.FilePath == "" {
		return errors.New("file path is required when output is file")
	}

	return nil
}

func (mc *MetricsConfig) Validate() error {
	if !mc.Enabled {
		return nil
	}

	if mc.Path == "" {
		return errors.New("metrics path cannot be empty")
	}

	if mc.Port <= 0 || mc.Port > 65535 {
		return errors.New("metrics port must be between 1 and 65535")
	}

	return nil
}

func (oc *ObservabilityConfig) Validate() error {
	if !oc.Tracing.Enabled {
		return nil
	}

	validExporters := []string{"stdout", "otlp"}
	found := false
	for _, ve := range validExporters {
		if oc.Tracing.Exporter == ve {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid tracing exporter: %s", oc.Tracing.Exporter)
	}

	if oc.Tracing.SampleRate < 0 || oc.Tracing.SampleRate > 1 {
		return errors.New("tracing sample rate must be between 0 and 1")
	}

	if oc.Tracing.Exporter == "otlp" && oc.Tracing.OTLPEndpoint == "" {
		return errors.New("OTLP endpoint is required when tracing exporter is otlp")
	}

	return nil
}
