package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"translator/internal/models"
)

// JSONStorage implements the Storage interface using a JSON file for
// persistence. The file is read once on open and rewritten atomically on
// every save.
type JSONStorage struct {
	filePath string
	mu       sync.RWMutex
	data     *JSONData
	closed   bool
}

// JSONData represents the structure of data stored in JSON format
type JSONData struct {
	Settings    *models.Settings `json:"settings"`
	LastUpdated time.Time        `json:"last_updated"`
}

// NewJSONStorage creates a new JSON-based storage instance
func NewJSONStorage(config Config) (*JSONStorage, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("path is required for JSON storage")
	}

	storage := &JSONStorage{
		filePath: config.Path,
	}

	// Initialize with empty data if file doesn't exist
	if err := storage.ensureFileExists(); err != nil {
		return nil, fmt.Errorf("failed to ensure file exists: %w", err)
	}

	if err := storage.loadData(); err != nil {
		return nil, fmt.Errorf("failed to load initial data: %w", err)
	}

	return storage, nil
}

// ensureFileExists creates the JSON file with empty data if it doesn't exist
func (j *JSONStorage) ensureFileExists() error {
	if _, err := os.Stat(j.filePath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(j.filePath), 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return j.saveData(&JSONData{})
	}
	return nil
}

func (j *JSONStorage) loadData() error {
	fileData, err := os.ReadFile(j.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data JSONData
	if err := json.Unmarshal(fileData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	j.mu.Lock()
	j.data = &data
	j.mu.Unlock()
	return nil
}

// saveData writes data to a temporary file and renames it over the target
func (j *JSONStorage) saveData(data *JSONData) error {
	data.LastUpdated = time.Now().UTC()

	fileData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmp := j.filePath + ".tmp"
	if err := os.WriteFile(tmp, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, j.filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// GetSettings returns a copy of the stored settings or the defaults
func (j *JSONStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return nil, ErrClosed
	}
	if j.data == nil || j.data.Settings == nil {
		return models.NewDefaultSettings(), nil
	}

	settingsCopy := *j.data.Settings
	settingsCopy.Shortcuts.Normalize()
	return &settingsCopy, nil
}

// SaveSettings persists settings to disk before updating the in-memory copy
func (j *JSONStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}

	settingsCopy := *settings
	settingsCopy.UpdatedAt = time.Now().UTC()

	data := &JSONData{Settings: &settingsCopy}
	if err := j.saveData(data); err != nil {
		return err
	}

	j.data = data
	settings.UpdatedAt = settingsCopy.UpdatedAt
	return nil
}

// Ping verifies the backing file is still readable.
func (j *JSONStorage) Ping(ctx context.Context) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}
	if _, err := os.Stat(j.filePath); err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	return nil
}

// Close marks the storage as closed
func (j *JSONStorage) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}
