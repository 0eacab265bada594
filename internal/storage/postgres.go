package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"translator/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS relay_settings (
	id               SMALLINT    PRIMARY KEY CHECK (id = 1),
	target_language  TEXT        NOT NULL,
	api_url          TEXT        NOT NULL,
	api_key          TEXT        NOT NULL,
	is_plugin_active BOOLEAN     NOT NULL DEFAULT FALSE,
	shortcuts        JSONB       NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
)`

// PostgresStorage stores settings in a single-row PostgreSQL table
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage connects to PostgreSQL and ensures the schema exists
func NewPostgresStorage(config Config) (*PostgresStorage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for PostgreSQL storage")
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if config.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(config.MaxOpenConns)
	}
	if config.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = config.ConnMaxLifetime
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// GetSettings returns the stored settings or the defaults
func (ps *PostgresStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	var (
		settings  models.Settings
		shortcuts []byte
	)
	err := ps.pool.QueryRow(ctx, `
		SELECT target_language, api_url, api_key, is_plugin_active, shortcuts, updated_at
		FROM relay_settings WHERE id = 1`).
		Scan(&settings.TargetLanguage, &settings.APIURL, &settings.APIKey,
			&settings.IsPluginActive, &shortcuts, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewDefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	settings.Shortcuts, err = unmarshalShortcuts(shortcuts)
	if err != nil {
		return nil, err
	}
	settings.UpdatedAt = settings.UpdatedAt.UTC()

	return &settings, nil
}

// SaveSettings upserts the single settings row
func (ps *PostgresStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	shortcuts, err := marshalShortcuts(settings.Shortcuts)
	if err != nil {
		return fmt.Errorf("failed to marshal shortcuts: %w", err)
	}

	updatedAt := time.Now().UTC()
	_, err = ps.pool.Exec(ctx, `
		INSERT INTO relay_settings (id, target_language, api_url, api_key, is_plugin_active, shortcuts, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			target_language  = EXCLUDED.target_language,
			api_url          = EXCLUDED.api_url,
			api_key          = EXCLUDED.api_key,
			is_plugin_active = EXCLUDED.is_plugin_active,
			shortcuts        = EXCLUDED.shortcuts,
			updated_at       = EXCLUDED.updated_at`,
		settings.TargetLanguage, settings.APIURL, settings.APIKey,
		settings.IsPluginActive, shortcuts, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	settings.UpdatedAt = updatedAt
	return nil
}

// Ping verifies the storage backend is reachable and operational.
func (ps *PostgresStorage) Ping(ctx context.Context) error {
	return ps.pool.Ping(ctx)
}

// Close closes the connection pool
func (ps *PostgresStorage) Close() error {
	ps.pool.Close()
	return nil
}
