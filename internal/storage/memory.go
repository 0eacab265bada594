package storage

import (
	"context"
	"sync"
	"time"

	"translator/internal/models"
)

// MemoryStorage implements the Storage interface using an in-memory record.
// This provider is ideal for development, testing, and scenarios where data
// persistence is not required. Data is lost on restart.
type MemoryStorage struct {
	mu       sync.RWMutex
	settings *models.Settings
	closed   bool
}

// NewMemoryStorage creates a new memory-based storage instance
func NewMemoryStorage(config Config) (*MemoryStorage, error) {
	return &MemoryStorage{}, nil
}

// GetSettings returns a copy of the stored settings or the defaults
func (m *MemoryStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.settings == nil {
		return models.NewDefaultSettings(), nil
	}

	// Return a copy to prevent external modification
	settingsCopy := *m.settings
	return &settingsCopy, nil
}

// SaveSettings stores a copy of settings
func (m *MemoryStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	settingsCopy := *settings
	settingsCopy.UpdatedAt = time.Now().UTC()
	m.settings = &settingsCopy
	settings.UpdatedAt = settingsCopy.UpdatedAt

	return nil
}

// Ping verifies the storage backend is reachable and operational.
func (m *MemoryStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the storage as closed
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
