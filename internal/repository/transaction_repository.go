package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/model"
)

// TransactionRepository provides data access methods for the txn_event table.
// Events are append-only: there is no update or delete path, the ledger is
// rebuilt by replaying rows in (occurred_at, sequence) order.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const txnColumns = "id, user_id, instrument_id, kind, quantity, unit_price, fees, net_amount, occurred_at, sequence, created_at"

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var quantityStr, unitPriceStr, feesStr, netAmountStr, occurredAtStr, createdAtStr string

	err := rows.Scan(
		&t.ID,
		&t.UserID,
		&t.InstrumentID,
		&t.Kind,
		&quantityStr,
		&unitPriceStr,
		&feesStr,
		&netAmountStr,
		&occurredAtStr,
		&t.Sequence,
		&createdAtStr,
	)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan txn_event table results: %w", err)
	}

	if t.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.Transaction{}, err
	}
	if t.UnitPrice, err = ParseDecimal(unitPriceStr); err != nil {
		return model.Transaction{}, err
	}
	if t.Fees, err = ParseDecimal(feesStr); err != nil {
		return model.Transaction{}, err
	}
	if t.NetAmount, err = ParseDecimal(netAmountStr); err != nil {
		return model.Transaction{}, err
	}
	if t.OccurredAt, err = ParseTime(occurredAtStr); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// GetEvents retrieves the full ordered event stream for a (user, instrument)
// pair. Ordering by (occurred_at, sequence) is what makes the result a valid
// replay input; callers never re-sort.
func (s *TransactionRepository) GetEvents(userID, instrumentID string) ([]model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT `+txnColumns+`
		 FROM txn_event
		 WHERE user_id = ? AND instrument_id = ?
		 ORDER BY occurred_at ASC, sequence ASC`,
		userID, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query txn_event table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating txn_event table: %w", err)
	}
	return transactions, nil
}

// GetEventsByUser retrieves all of a user's events grouped by instrument,
// each group ordered by (occurred_at, sequence). This grouping lets the
// holdings aggregator replay instruments independently (and in parallel).
func (s *TransactionRepository) GetEventsByUser(userID string) (map[string][]model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT `+txnColumns+`
		 FROM txn_event
		 WHERE user_id = ?
		 ORDER BY instrument_id ASC, occurred_at ASC, sequence ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query txn_event table: %w", err)
	}
	defer rows.Close()

	eventsByInstrument := make(map[string][]model.Transaction)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		eventsByInstrument[t.InstrumentID] = append(eventsByInstrument[t.InstrumentID], t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating txn_event table: %w", err)
	}
	return eventsByInstrument, nil
}

// GetTransaction retrieves a single transaction event by its ID.
func (s *TransactionRepository) GetTransaction(transactionID string) (model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT `+txnColumns+` FROM txn_event WHERE id = ?`, transactionID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to query txn_event table: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Transaction{}, fmt.Errorf("error iterating txn_event table: %w", err)
		}
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return scanTransaction(rows)
}

// NextSequence returns the next free sequence number for a (user,
// instrument, date) triple. Same-date events tie-break on this value.
func (s *TransactionRepository) NextSequence(userID, instrumentID string, occurredAt string) (int64, error) {
	row := s.db.QueryRow(
		`SELECT COALESCE(MAX(sequence), 0) + 1
		 FROM txn_event
		 WHERE user_id = ? AND instrument_id = ? AND occurred_at = ?`,
		userID, instrumentID, occurredAt)

	var next int64
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to query next sequence: %w", err)
	}
	return next, nil
}

// InsertEvent persists a new transaction event. A duplicate
// (user, instrument, occurred_at, sequence) maps to ErrDuplicateEntry.
func (s *TransactionRepository) InsertEvent(ctx context.Context, t *model.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO txn_event (`+txnColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.UserID,
		t.InstrumentID,
		t.Kind,
		t.Quantity.String(),
		t.UnitPrice.String(),
		t.Fees.String(),
		t.NetAmount.String(),
		t.OccurredAt.Format("2006-01-02"),
		t.Sequence,
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert transaction event: %w", err)
	}
	return nil
}
