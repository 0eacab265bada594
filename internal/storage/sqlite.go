package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"translator/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
	id               INTEGER PRIMARY KEY CHECK (id = 1),
	target_language  TEXT    NOT NULL,
	api_url          TEXT    NOT NULL,
	api_key          TEXT    NOT NULL,
	is_plugin_active INTEGER NOT NULL DEFAULT 0,
	shortcuts        TEXT    NOT NULL,
	updated_at       TEXT    NOT NULL
)`

// SQLiteStorage stores settings in a single-row SQLite table
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance and ensures the schema exists
func NewSQLiteStorage(config Config) (*SQLiteStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for SQLite storage")
	}

	db, err := sql.Open("sqlite", config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStorage{
		db: db,
	}, nil
}

// GetSettings returns the stored settings or the defaults
func (ss *SQLiteStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	row := ss.db.QueryRowContext(ctx, `
		SELECT target_language, api_url, api_key, is_plugin_active, shortcuts, updated_at
		FROM settings WHERE id = 1`)

	var (
		settings  models.Settings
		shortcuts string
		updatedAt string
	)
	err := row.Scan(&settings.TargetLanguage, &settings.APIURL, &settings.APIKey,
		&settings.IsPluginActive, &shortcuts, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewDefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	settings.Shortcuts, err = unmarshalShortcutsFromString(shortcuts)
	if err != nil {
		return nil, err
	}
	settings.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &settings, nil
}

// SaveSettings upserts the single settings row
func (ss *SQLiteStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	shortcuts, err := marshalShortcuts(settings.Shortcuts)
	if err != nil {
		return fmt.Errorf("failed to marshal shortcuts: %w", err)
	}

	updatedAt := time.Now().UTC()
	_, err = ss.db.ExecContext(ctx, `
		INSERT INTO settings (id, target_language, api_url, api_key, is_plugin_active, shortcuts, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target_language  = excluded.target_language,
			api_url          = excluded.api_url,
			api_key          = excluded.api_key,
			is_plugin_active = excluded.is_plugin_active,
			shortcuts        = excluded.shortcuts,
			updated_at       = excluded.updated_at`,
		settings.TargetLanguage, settings.APIURL, settings.APIKey,
		settings.IsPluginActive, string(shortcuts), updatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	settings.UpdatedAt = updatedAt
	return nil
}

// Ping verifies the storage backend is reachable and operational.
func (ss *SQLiteStorage) Ping(ctx context.Context) error {
	return ss.db.PingContext(ctx)
}

// Close closes the storage connection
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}
