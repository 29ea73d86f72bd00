package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
)

// SettingsRepository provides data access methods for the setting table,
// a small key/value store for operational configuration such as the price
// feed credential. Values flagged encrypted hold fernet ciphertext; the
// secrets layer, not this repository, does the encrypting.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a setting value and whether it is stored encrypted.
func (s *SettingsRepository) Get(key string) (value string, encrypted bool, err error) {
	row := s.db.QueryRow(`SELECT value, encrypted FROM setting WHERE key = ?`, key)

	err = row.Scan(&value, &encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query setting table: %w", err)
	}
	return value, encrypted, nil
}

// Set stores or replaces a setting value.
func (s *SettingsRepository) Set(key, value string, encrypted bool, updatedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO setting (key, value, encrypted, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, encrypted = excluded.encrypted, updated_at = excluded.updated_at`,
		key, value, encrypted, updatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}
