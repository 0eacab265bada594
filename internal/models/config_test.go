package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	// Test server defaults
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 30*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, config.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, config.Server.IdleTimeout)
	assert.False(t, config.Server.TLSEnabled)
	assert.True(t, config.Server.CORS.Enabled)

	// Test storage defaults
	assert.Equal(t, StorageTypeMemory, config.Storage.Type)
	assert.Equal(t, "./data/settings.json", config.Storage.Path)
	assert.Equal(t, 5, config.Storage.Database.MaxOpenConns)
	assert.Equal(t, 2, config.Storage.Database.MaxIdleConns)

	// Test gate defaults
	assert.Equal(t, 8, config.Gate.Quota)
	assert.Equal(t, 60*time.Second, config.Gate.Window)
	assert.Equal(t, time.Second, config.Gate.BroadcastPeriod)

	// Test translation defaults
	assert.Equal(t, DefaultAPIURL, config.Translation.DefaultAPIURL)
	assert.Equal(t, "Hello, world!", config.Translation.ProbeText)
	assert.Equal(t, "ES", config.Translation.ProbeLanguage)

	// Test notify defaults
	assert.True(t, config.Notify.WebSocket.Enabled)
	assert.Equal(t, 16, config.Notify.WebSocket.SendBuffer)
	assert.False(t, config.Notify.Redis.Enabled)
	assert.Equal(t, "translator:events", config.Notify.Redis.Channel)

	// Test logging defaults
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, "stdout", config.Logging.Output)

	// Test metrics defaults
	assert.True(t, config.Metrics.Enabled)
	assert.Equal(t, "/metrics", config.Metrics.Path)
	assert.Equal(t, 9090, config.Metrics.Port)

	// Test observability defaults
	assert.Equal(t, "translator", config.Observability.ServiceName)
	assert.False(t, config.Observability.Tracing.Enabled)
	assert.Equal(t, "stdout", config.Observability.Tracing.Exporter)
	assert.Equal(t, 1.0, config.Observability.Tracing.SampleRate)

	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"invalid server config", func(c *Config) { c.Server.Port = -1 }, "invalid server config"},
		{"invalid storage config", func(c *Config) { c.Storage.Type = "invalid-type" }, "invalid storage config"},
		{"invalid gate config", func(c *Config) { c.Gate.Quota = 0 }, "invalid gate config"},
		{"invalid translation config", func(c *Config) { c.Translation.DefaultAPIURL = "" }, "invalid translation config"},
		{"invalid notify config", func(c *Config) { c.Notify.WebSocket.SendBuffer = 0 }, "invalid notify config"},
		{"invalid logging config", func(c *Config) { c.Logging.Level = "trace" }, "invalid logging config"},
		{"invalid metrics config", func(c *Config) { c.Metrics.Path = "" }, "invalid metrics config"},
		{"invalid observability config", func(c *Config) {
			c.Observability.Tracing.Enabled = true
			c.Observability.Tracing.Exporter = "zipkin"
		}, "invalid observability config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      ServerConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			config: ServerConfig{Port: 8080, Host: "localhost"},
		},
		{
			name:        "port too high",
			config:      ServerConfig{Port: 70000, Host: "localhost"},
			expectError: true,
			errorMsg:    "port must be between 1 and 65535",
		},
		{
			name:        "empty host",
			config:      ServerConfig{Port: 8080},
			expectError: true,
			errorMsg:    "host cannot be empty",
		},
		{
			name:        "negative read timeout",
			config:      ServerConfig{Port: 8080, Host: "localhost", ReadTimeout: -time.Second},
			expectError: true,
			errorMsg:    "read timeout cannot be negative",
		},
		{
			name:        "TLS without cert",
			config:      ServerConfig{Port: 8080, Host: "localhost", TLSEnabled: true, TLSKeyFile: "key.pem"},
			expectError: true,
			errorMsg:    "TLS cert file is required",
		},
		{
			name:        "TLS without key",
			config:      ServerConfig{Port: 8080, Host: "localhost", TLSEnabled: true, TLSCertFile: "cert.pem"},
			expectError: true,
			errorMsg:    "TLS key file is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorageConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      StorageConfig
		expectError bool
		errorMsg    string
	}{
		{name: "memory", config: StorageConfig{Type: StorageTypeMemory}},
		{name: "json with path", config: StorageConfig{Type: StorageTypeJSON, Path: "settings.json"}},
		{
			name:        "json without path",
			config:      StorageConfig{Type: StorageTypeJSON},
			expectError: true,
			errorMsg:    "path is required",
		},
		{name: "sqlite with dsn", config: StorageConfig{Type: StorageTypeSQLite, Database: DatabaseConfig{DSN: "file:x.db"}}},
		{
			name:        "postgres without dsn",
			config:      StorageConfig{Type: StorageTypePostgres},
			expectError: true,
			errorMsg:    "database DSN is required",
		},
		{
			name:        "unknown type",
			config:      StorageConfig{Type: "mongo"},
			expectError: true,
			errorMsg:    "invalid storage type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGateConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		config   GateConfig
		errorMsg string
	}{
		{"valid", GateConfig{Quota: 8, Window: time.Minute, BroadcastPeriod: time.Second}, ""},
		{"zero quota", GateConfig{Quota: 0, Window: time.Minute, BroadcastPeriod: time.Second}, "quota must be positive"},
		{"zero window", GateConfig{Quota: 8, BroadcastPeriod: time.Second}, "window must be positive"},
		{"fractional millisecond", GateConfig{Quota: 8, Window: time.Minute + time.Microsecond, BroadcastPeriod: time.Second}, "whole number of milliseconds"},
		{"zero period", GateConfig{Quota: 8, Window: time.Minute}, "broadcast period must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestTranslationConfig_Validate(t *testing.T) {
	valid := TranslationConfig{DefaultAPIURL: DefaultAPIURL, ProbeText: "Hello", ProbeLanguage: "ES"}
	assert.NoError(t, valid.Validate())

	noProbe := valid
	noProbe.ProbeText = ""
	assert.ErrorContains(t, noProbe.Validate(), "probe text")

	noLanguage := valid
	noLanguage.ProbeLanguage = ""
	assert.ErrorContains(t, noLanguage.Validate(), "probe language")

	negative := valid
	negative.RequestTimeout = -time.Second
	assert.ErrorContains(t, negative.Validate(), "request timeout")
}

func TestNotifyConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		config   NotifyConfig
		errorMsg string
	}{
		{"all disabled", NotifyConfig{}, ""},
		{"websocket valid", NotifyConfig{WebSocket: WebSocketConfig{Enabled: true, SendBuffer: 4, PingInterval: time.Second}}, ""},
		{"websocket zero ping", NotifyConfig{WebSocket: WebSocketConfig{Enabled: true, SendBuffer: 4}}, "ping interval"},
		{"redis without addr", NotifyConfig{Redis: RedisConfig{Enabled: true, Channel: "c"}}, "Redis address is required"},
		{"redis without channel", NotifyConfig{Redis: RedisConfig{Enabled: true, Addr: "localhost:6379"}}, "Redis channel is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoggingConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		config   LoggingConfig
		errorMsg string
	}{
		{"valid", LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}, ""},
		{"bad level", LoggingConfig{Level: "verbose", Format: "json", Output: "stdout"}, "invalid log level"},
		{"bad format", LoggingConfig{Level: "info", Format: "xml", Output: "stdout"}, "invalid log format"},
		{"bad output", LoggingConfig{Level: "info", Format: "json", Output: "syslog"}, "invalid log output"},
		{"file without path", LoggingConfig{Level: "info", Format: "json", Output: "file"}, "file path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestMetricsConfig_Validate(t *testing.T) {
	assert.NoError(t, (&MetricsConfig{Enabled: false}).Validate())
	assert.NoError(t, (&MetricsConfig{Enabled: true, Path: "/metrics", Port: 9090}).Validate())
	assert.ErrorContains(t, (&MetricsConfig{Enabled: true, Port: 9090}).Validate(), "metrics path")
	assert.ErrorContains(t, (&MetricsConfig{Enabled: true, Path: "/metrics"}).Validate(), "metrics port")
}

func TestObservabilityConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		config   ObservabilityConfig
		errorMsg string
	}{
		{"tracing disabled", ObservabilityConfig{}, ""},
		{"stdout", ObservabilityConfig{Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SampleRate: 1}}, ""},
		{"otlp with endpoint", ObservabilityConfig{Tracing: TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 0.5, OTLPEndpoint: "collector:4317"}}, ""},
		{"otlp without endpoint", ObservabilityConfig{Tracing: TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1}}, "OTLP endpoint is required"},
		{"bad sample rate", ObservabilityConfig{Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SampleRate: 1.5}}, "sample rate"},
		{"bad exporter", ObservabilityConfig{Tracing: TracingConfig{Enabled: true, Exporter: "jaeger"}}, "invalid tracing exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
