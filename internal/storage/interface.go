package storage

import (
	"context"
	"time"

	"translator/internal/models"
)

// Storage defines the interface for persisting the user's relay settings.
// It provides a clean abstraction that can be implemented by different
// backends such as JSON files or databases. Exactly one settings record
// exists per store.
type Storage interface {
	// GetSettings returns the stored settings, or the defaults when nothing
	// has been saved yet
	GetSettings(ctx context.Context) (*models.Settings, error)

	// SaveSettings replaces the stored settings
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// Ping verifies the storage backend is reachable and operational
	Ping(ctx context.Context) error

	// Close closes the storage connection and cleans up resources
	Close() error
}

// Config holds configuration for storage backends
type Config struct {
	// Type specifies the storage backend type (json, memory, sqlite, postgres)
	Type string `json:"type" yaml:"type"`

	// Path is used for file-based storage backends
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ConnectionString is used for database backends
	ConnectionString string `json:"connection_string,omitempty" yaml:"connection_string,omitempty"`

	// Connection pool limits for database backends; zero keeps the driver default
	MaxOpenConns    int           `json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int           `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"`
}
