package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/model"
)

// DividendRepository provides data access methods for the dividend_event
// and dividend_entitlement tables.
type DividendRepository struct {
	db *sql.DB
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

const dividendEventColumns = "id, instrument_id, record_date, payment_date, amount_per_share, created_at"
const entitlementColumns = "id, user_id, instrument_id, dividend_event_id, qualifying_quantity, amount, status, created_at, updated_at"

func scanDividendEvent(row interface{ Scan(...any) error }) (model.DividendEvent, error) {
	var d model.DividendEvent
	var recordDateStr, paymentDateStr, amountStr, createdAtStr string

	err := row.Scan(&d.ID, &d.InstrumentID, &recordDateStr, &paymentDateStr, &amountStr, &createdAtStr)
	if err != nil {
		return model.DividendEvent{}, err
	}

	if d.RecordDate, err = ParseTime(recordDateStr); err != nil {
		return model.DividendEvent{}, err
	}
	if d.PaymentDate, err = ParseTime(paymentDateStr); err != nil {
		return model.DividendEvent{}, err
	}
	if d.AmountPerShare, err = ParseDecimal(amountStr); err != nil {
		return model.DividendEvent{}, err
	}
	if d.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.DividendEvent{}, err
	}
	return d, nil
}

// GetDividendEvent retrieves a single dividend event by its ID.
func (s *DividendRepository) GetDividendEvent(dividendEventID string) (model.DividendEvent, error) {
	row := s.db.QueryRow(
		`SELECT `+dividendEventColumns+` FROM dividend_event WHERE id = ?`, dividendEventID)

	d, err := scanDividendEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DividendEvent{}, apperrors.ErrDividendEventNotFound
	}
	if err != nil {
		return model.DividendEvent{}, fmt.Errorf("failed to query dividend_event table: %w", err)
	}
	return d, nil
}

// GetAllDividendEvents retrieves all dividend events ordered by record date.
func (s *DividendRepository) GetAllDividendEvents() ([]model.DividendEvent, error) {
	rows, err := s.db.Query(
		`SELECT ` + dividendEventColumns + ` FROM dividend_event ORDER BY record_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_event table: %w", err)
	}
	defer rows.Close()

	events := []model.DividendEvent{}
	for rows.Next() {
		d, err := scanDividendEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_event table results: %w", err)
		}
		events = append(events, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_event table: %w", err)
	}
	return events, nil
}

// InsertDividendEvent persists a new dividend event.
func (s *DividendRepository) InsertDividendEvent(d model.DividendEvent) error {
	_, err := s.db.Exec(
		`INSERT INTO dividend_event (`+dividendEventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.InstrumentID,
		d.RecordDate.Format("2006-01-02"),
		d.PaymentDate.Format("2006-01-02"),
		d.AmountPerShare.String(),
		d.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dividend event: %w", err)
	}
	return nil
}

func scanEntitlement(row interface{ Scan(...any) error }) (model.DividendEntitlement, error) {
	var e model.DividendEntitlement
	var quantityStr, amountStr, statusStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.InstrumentID,
		&e.DividendEventID,
		&quantityStr,
		&amountStr,
		&statusStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.DividendEntitlement{}, err
	}

	if e.QualifyingQuantity, err = ParseDecimal(quantityStr); err != nil {
		return model.DividendEntitlement{}, err
	}
	if e.Amount, err = ParseDecimal(amountStr); err != nil {
		return model.DividendEntitlement{}, err
	}
	e.Status = model.EntitlementStatus(statusStr)
	if e.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.DividendEntitlement{}, err
	}
	if e.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.DividendEntitlement{}, err
	}
	return e, nil
}

// GetEntitlement retrieves a single entitlement by its ID.
func (s *DividendRepository) GetEntitlement(entitlementID string) (model.DividendEntitlement, error) {
	row := s.db.QueryRow(
		`SELECT `+entitlementColumns+` FROM dividend_entitlement WHERE id = ?`, entitlementID)

	e, err := scanEntitlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DividendEntitlement{}, apperrors.ErrEntitlementNotFound
	}
	if err != nil {
		return model.DividendEntitlement{}, fmt.Errorf("failed to query dividend_entitlement table: %w", err)
	}
	return e, nil
}

// GetEntitlementForEvent retrieves the entitlement for one (user, dividend
// event) pair, the uniqueness key of the table.
func (s *DividendRepository) GetEntitlementForEvent(userID, dividendEventID string) (model.DividendEntitlement, error) {
	row := s.db.QueryRow(
		`SELECT `+entitlementColumns+`
		 FROM dividend_entitlement
		 WHERE user_id = ? AND dividend_event_id = ?`,
		userID, dividendEventID)

	e, err := scanEntitlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DividendEntitlement{}, apperrors.ErrEntitlementNotFound
	}
	if err != nil {
		return model.DividendEntitlement{}, fmt.Errorf("failed to query dividend_entitlement table: %w", err)
	}
	return e, nil
}

// GetEntitlementsByUser retrieves all entitlements for a user ordered by creation.
func (s *DividendRepository) GetEntitlementsByUser(userID string) ([]model.DividendEntitlement, error) {
	rows, err := s.db.Query(
		`SELECT `+entitlementColumns+`
		 FROM dividend_entitlement
		 WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_entitlement table: %w", err)
	}
	defer rows.Close()

	entitlements := []model.DividendEntitlement{}
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_entitlement table results: %w", err)
		}
		entitlements = append(entitlements, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_entitlement table: %w", err)
	}
	return entitlements, nil
}

// GetEntitlementsByStatus retrieves all entitlements in a given status.
// Used by the payment-date sweep over qualified entitlements.
func (s *DividendRepository) GetEntitlementsByStatus(status model.EntitlementStatus) ([]model.DividendEntitlement, error) {
	rows, err := s.db.Query(
		`SELECT `+entitlementColumns+`
		 FROM dividend_entitlement
		 WHERE status = ?
		 ORDER BY created_at ASC, id ASC`,
		string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_entitlement table: %w", err)
	}
	defer rows.Close()

	entitlements := []model.DividendEntitlement{}
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_entitlement table results: %w", err)
		}
		entitlements = append(entitlements, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_entitlement table: %w", err)
	}
	return entitlements, nil
}

// InsertEntitlement persists a new entitlement. A second insert for the
// same (user, dividend event) maps to ErrDuplicateEntitlement.
func (s *DividendRepository) InsertEntitlement(ctx context.Context, e *model.DividendEntitlement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dividend_entitlement (`+entitlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.UserID,
		e.InstrumentID,
		e.DividendEventID,
		e.QualifyingQuantity.String(),
		e.Amount.String(),
		string(e.Status),
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperrors.ErrDuplicateEntitlement
		}
		return fmt.Errorf("failed to insert entitlement: %w", err)
	}
	return nil
}

// UpdateEntitlementStatus persists a status transition. Only the status and
// updated_at columns ever change; qualifying quantity is immutable.
func (s *DividendRepository) UpdateEntitlementStatus(ctx context.Context, entitlementID string, status model.EntitlementStatus, updatedAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE dividend_entitlement SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), updatedAt.UTC().Format(time.RFC3339), entitlementID)
	if err != nil {
		return fmt.Errorf("failed to update entitlement status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrEntitlementNotFound
	}
	return nil
}
