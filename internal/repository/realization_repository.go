package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Arianguy/Banko-sub000/internal/model"
)

// RealizationRepository provides data access methods for the realization
// table, the stored projection of disposal outcomes from replay.
type RealizationRepository struct {
	db *sql.DB
}

// NewRealizationRepository creates a new RealizationRepository with the provided database connection.
func NewRealizationRepository(db *sql.DB) *RealizationRepository {
	return &RealizationRepository{db: db}
}

const realizationColumns = "id, user_id, instrument_id, transaction_id, disposed_at, quantity, proceeds, cost_of_disposed, gain_loss, created_at"

// GetRealizations retrieves a user's realization history, optionally
// filtered to one instrument, ordered by disposal date.
func (s *RealizationRepository) GetRealizations(userID, instrumentID string) ([]model.Realization, error) {
	query := `SELECT ` + realizationColumns + `
		 FROM realization
		 WHERE user_id = ?`
	args := []any{userID}
	if instrumentID != "" {
		query += ` AND instrument_id = ?`
		args = append(args, instrumentID)
	}
	query += ` ORDER BY disposed_at ASC, created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query realization table: %w", err)
	}
	defer rows.Close()

	realizations := []model.Realization{}
	for rows.Next() {
		var r model.Realization
		var disposedAtStr, quantityStr, proceedsStr, costStr, gainLossStr, createdAtStr string

		err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.InstrumentID,
			&r.TransactionID,
			&disposedAtStr,
			&quantityStr,
			&proceedsStr,
			&costStr,
			&gainLossStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan realization table results: %w", err)
		}

		if r.DisposedAt, err = ParseTime(disposedAtStr); err != nil {
			return nil, err
		}
		if r.Quantity, err = ParseDecimal(quantityStr); err != nil {
			return nil, err
		}
		if r.Proceeds, err = ParseDecimal(proceedsStr); err != nil {
			return nil, err
		}
		if r.CostOfDisposed, err = ParseDecimal(costStr); err != nil {
			return nil, err
		}
		if r.GainLoss, err = ParseDecimal(gainLossStr); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		realizations = append(realizations, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realization table: %w", err)
	}
	return realizations, nil
}

// ReplaceForInstrument rewrites the realization history for a (user,
// instrument) pair from a fresh replay, inside one transaction. The replay
// is the source of truth; stored rows are a queryable projection of it.
func (s *RealizationRepository) ReplaceForInstrument(ctx context.Context, userID, instrumentID string, realizations []model.Realization) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM realization WHERE user_id = ? AND instrument_id = ?`,
		userID, instrumentID); err != nil {
		return fmt.Errorf("failed to clear realizations: %w", err)
	}

	for _, r := range realizations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO realization (`+realizationColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID,
			r.UserID,
			r.InstrumentID,
			r.TransactionID,
			r.DisposedAt.Format("2006-01-02"),
			r.Quantity.String(),
			r.Proceeds.String(),
			r.CostOfDisposed.String(),
			r.GainLoss.String(),
			r.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert realization: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit realizations: %w", err)
	}
	return nil
}
