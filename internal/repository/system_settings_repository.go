package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"signaldesk/internal/domain"
)

// SystemSettingsRepository handles system settings database operations
type SystemSettingsRepository struct {
	db *pgxpool.Pool
}

// NewSystemSettingsRepository creates a new repository instance
func NewSystemSettingsRepository(db *pgxpool.Pool) *SystemSettingsRepository {
	return &SystemSettingsRepository{db: db}
}

// Get retrieves a setting by key
func (r *SystemSettingsRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	err := r.db.QueryRow(ctx, `
		SELECT key, value, COALESCE(description, ''), updated_at
		FROM system_settings
		WHERE key = $1
	`, key).Scan(&setting.Key, &setting.Value, &setting.Description, &setting.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("setting %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return &setting, nil
}

// Set updates or creates a setting
func (r *SystemSettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO system_settings (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET 
			value = EXCLUDED.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)

	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}

// GetAll retrieves all system settings
func (r *SystemSettingsRepository) GetAll(ctx context.Context) ([]*domain.Setting, error) {
	rows, err := r.db.Query(ctx, `
		SELECT key, value, COALESCE(description, ''), updated_at
		FROM system_settings
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer rows.Close()

	var settings []*domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}

	return settings, rows.Err()
}
