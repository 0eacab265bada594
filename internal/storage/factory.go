package storage

import (
	"fmt"
	"slices"

	"translator/internal/models"
)

// Constructor opens a settings store from backend-level configuration.
type Constructor func(Config) (Storage, error)

// Factory maps storage type names to constructors.
type Factory struct {
	constructors map[string]Constructor
}

// NewFactory returns a factory that knows the json, memory, postgres and
// sqlite backends.
func NewFactory() *Factory {
	f := &Factory{constructors: make(map[string]Constructor)}
	f.Register(models.StorageTypeJSON, func(c Config) (Storage, error) { return NewJSONStorage(c) })
	f.Register(models.StorageTypeMemory, func(c Config) (Storage, error) { return NewMemoryStorage(c) })
	f.Register(models.StorageTypePostgres, func(c Config) (Storage, error) { return NewPostgresStorage(c) })
	f.Register(models.StorageTypeSQLite, func(c Config) (Storage, error) { return NewSQLiteStorage(c) })
	return f
}

// Register adds or replaces the constructor for name.
func (f *Factory) Register(name string, ctor Constructor) {
	f.constructors[name] = ctor
}

// Create validates config and opens the matching backend.
func (f *Factory) Create(config models.StorageConfig) (Storage, error) {
	if err := f.ValidateConfig(config); err != nil {
		return nil, err
	}

	store, err := f.constructors[config.Type](backendConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", config.Type, err)
	}
	return store, nil
}

// GetSupportedProviders lists registered type names in sorted order.
func (f *Factory) GetSupportedProviders() []string {
	names := make([]string, 0, len(f.constructors))
	for name := range f.constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateConfig checks that config names a registered backend and carries
// what that backend needs.
func (f *Factory) ValidateConfig(config models.StorageConfig) error {
	if _, ok := f.constructors[config.Type]; !ok {
		return fmt.Errorf("unsupported storage type: %s", config.Type)
	}

	switch config.Type {
	case models.StorageTypeJSON:
		if config.Path == "" {
			return fmt.Errorf("path is required for JSON storage")
		}
	case models.StorageTypePostgres, models.StorageTypeSQLite:
		if config.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for %s storage", config.Type)
		}
	}
	return nil
}

func backendConfig(config models.StorageConfig) Config {
	return Config{
		Type:             config.Type,
		Path:             config.Path,
		ConnectionString: config.Database.DSN,
		MaxOpenConns:     config.Database.MaxOpenConns,
		MaxIdleConns:     config.Database.MaxIdleConns,
		ConnMaxLifetime:  config.Database.ConnMaxLifetime,
	}
}
