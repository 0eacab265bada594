package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"translator/internal/models"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*models.Config, error) {
	// Start with default configuration
	config := models.NewDefaultConfig()

	// Load from file if provided and exists
	if configPath != "" {
		if err := loadFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Override with environment variables
	loadFromEnvironment(config)

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// deprecatedConfig mirrors removed config fields for detecting stale operator configs.
type deprecatedConfig struct {
	RateLimit   interface{} `yaml:"rate_limit"`
	Translation struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"translation"`
	Gate struct {
		RequestsPerMinute interface{} `yaml:"requests_per_minute"`
	} `yaml:"gate"`
}

// warnDeprecatedKeys logs a warning for each removed config key found in the YAML data.
// The service continues to start normally - these keys are silently ignored by the main decoder.
func warnDeprecatedKeys(data []byte) {
	var dep deprecatedConfig
	if err := yaml.Unmarshal(data, &dep); err != nil {
		return
	}
	if dep.RateLimit != nil {
		slog.Warn("Config section has been renamed; move quota and window under gate.", "config_key", "rate_limit")
	}
	if dep.Translation.APIKey != "" {
		slog.Warn("Config key is no longer used; the API key is stored with the user settings.", "config_key", "translation.api_key")
	}
	if dep.Gate.RequestsPerMinute != nil {
		slog.Warn("Config key is no longer supported; set gate.quota and gate.window instead.", "config_key", "gate.requests_per_minute")
	}
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(config *models.Config, filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	warnDeprecatedKeys(data)
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// loadFromEnvironment loads configuration from environment variables
func loadFromEnvironment(config *models.Config) {
	// Server configuration
	if port := os.Getenv("TRANSLATOR_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("TRANSLATOR_HOST"); host != "" {
		config.Server.Host = host
	}

	if timeout := os.Getenv("TRANSLATOR_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.ReadTimeout = d
		}
	}

	if timeout := os.Getenv("TRANSLATOR_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.WriteTimeout = d
		}
	}

	if timeout := os.Getenv("TRANSLATOR_IDLE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.IdleTimeout = d
		}
	}

	if tls := os.Getenv("TRANSLATOR_TLS_ENABLED"); tls != "" {
		config.Server.TLSEnabled = strings.ToLower(tls) == "true"
	}

	if certFile := os.Getenv("TRANSLATOR_TLS_CERT_FILE"); certFile != "" {
		config.Server.TLSCertFile = certFile
	}

	if keyFile := os.Getenv("TRANSLATOR_TLS_KEY_FILE"); keyFile != "" {
		config.Server.TLSKeyFile = keyFile
	}

	if origins := os.Getenv("TRANSLATOR_CORS_ALLOWED_ORIGINS"); origins != "" {
		config.Server.CORS.AllowedOrigins = splitList(origins)
	}

	// Storage configuration
	if storageType := os.Getenv("TRANSLATOR_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}

	if storagePath := os.Getenv("TRANSLATOR_STORAGE_PATH"); storagePath != "" {
		config.Storage.Path = storagePath
	}

	if dsn := os.Getenv("TRANSLATOR_DATABASE_DSN"); dsn != "" {
		config.Storage.Database.DSN = dsn
	}

	if maxOpen := os.Getenv("TRANSLATOR_DATABASE_MAX_OPEN_CONNS"); maxOpen != "" {
		if conns, err := strconv.Atoi(maxOpen); err == nil {
			config.Storage.Database.MaxOpenConns = conns
		}
	}

	if maxIdle := os.Getenv("TRANSLATOR_DATABASE_MAX_IDLE_CONNS"); maxIdle != "" {
		if conns, err := strconv.Atoi(maxIdle); err == nil {
			config.Storage.Database.MaxIdleConns = conns
		}
	}

	// Gate configuration
	if quota := os.Getenv("TRANSLATOR_GATE_QUOTA"); quota != "" {
		if q, err := strconv.Atoi(quota); err == nil {
			config.Gate.Quota = q
		}
	}

	if window := os.Getenv("TRANSLATOR_GATE_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			config.Gate.Window = d
		}
	}

	if period := os.Getenv("TRANSLATOR_GATE_BROADCAST_PERIOD"); period != "" {
		if d, err := time.ParseDuration(period); err == nil {
			config.Gate.BroadcastPeriod = d
		}
	}

	// Translation configuration
	if apiURL := os.Getenv("TRANSLATOR_DEFAULT_API_URL"); apiURL != "" {
		config.Translation.DefaultAPIURL = apiURL
	}

	if timeout := os.Getenv("TRANSLATOR_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Translation.RequestTimeout = d
		}
	}

	// Notification configuration
	if ws := os.Getenv("TRANSLATOR_WEBSOCKET_ENABLED"); ws != "" {
		config.Notify.WebSocket.Enabled = strings.ToLower(ws) == "true"
	}

	if redis := os.Getenv("TRANSLATOR_REDIS_ENABLED"); redis != "" {
		config.Notify.Redis.Enabled = strings.ToLower(redis) == "true"
	}

	if addr := os.Getenv("TRANSLATOR_REDIS_ADDR"); addr != "" {
		config.Notify.Redis.Addr = addr
	}

	if password := os.Getenv("TRANSLATOR_REDIS_PASSWORD"); password != "" {
		config.Notify.Redis.Password = password
	}

	if db := os.Getenv("TRANSLATOR_REDIS_DB"); db != "" {
		if dbNum, err := strconv.Atoi(db); err == nil {
			config.Notify.Redis.DB = dbNum
		}
	}

	if poolSize := os.Getenv("TRANSLATOR_REDIS_POOL_SIZE"); poolSize != "" {
		if size, err := strconv.Atoi(poolSize); err == nil {
			config.Notify.Redis.PoolSize = size
		}
	}

	if channel := os.Getenv("TRANSLATOR_REDIS_CHANNEL"); channel != "" {
		config.Notify.Redis.Channel = channel
	}

	// Logging configuration
	if level := os.Getenv("TRANSLATOR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("TRANSLATOR_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if output := os.Getenv("TRANSLATOR_LOG_OUTPUT"); output != "" {
		config.Logging.Output = output
	}

	if filePath := os.Getenv("TRANSLATOR_LOG_FILE_PATH"); filePath != "" {
		config.Logging.FilePath = filePath
	}

	// Metrics configuration
	if metrics := os.Getenv("TRANSLATOR_METRICS_ENABLED"); metrics != "" {
		config.Metrics.Enabled = strings.ToLower(metrics) == "true"
	}

	if path := os.Getenv("TRANSLATOR_METRICS_PATH"); path != "" {
		config.Metrics.Path = path
	}

	if port := os.Getenv("TRANSLATOR_METRICS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Metrics.Port = p
		}
	}

	// Tracing configuration
	if tracing := os.Getenv("TRANSLATOR_TRACING_ENABLED"); tracing != "" {
		config.Observability.Tracing.Enabled = strings.ToLower(tracing) == "true"
	}

	if exporter := os.Getenv("TRANSLATOR_TRACING_EXPORTER"); exporter != "" {
		config.Observability.Tracing.Exporter = exporter
	}

	if rate := os.Getenv("TRANSLATOR_TRACING_SAMPLE_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Observability.Tracing.SampleRate = r
		}
	}

	if endpoint := os.Getenv("TRANSLATOR_OTLP_ENDPOINT"); endpoint != "" {
		config.Observability.Tracing.OTLPEndpoint = endpoint
	}
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SaveExample saves an example configuration file
func SaveExample(filePath string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Get default config with some example values
	config := models.NewDefaultConfig()

	// Persist settings to a file in the example
	config.Storage.Type = models.StorageTypeJSON
	config.Storage.Path = "./data/settings.json"

	// Example Redis fan-out
	config.Notify.Redis.Enabled = false
	config.Notify.Redis.Addr = "localhost:6379"

	// Example TLS configuration
	config.Server.TLSEnabled = false
	config.Server.TLSCertFile = "/path/to/cert.pem"
	config.Server.TLSKeyFile = "/path/to/key.pem"

	// Marshal to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
