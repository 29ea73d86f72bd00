package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/model"
)

// InstrumentRepository provides data access methods for the instrument and
// instrument_price tables.
type InstrumentRepository struct {
	db *sql.DB
}

// NewInstrumentRepository creates a new InstrumentRepository with the provided database connection.
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

const instrumentColumns = "id, symbol, name, exchange, asset_class, currency"

// GetInstrument retrieves a single instrument by its ID.
func (s *InstrumentRepository) GetInstrument(instrumentID string) (model.Instrument, error) {
	row := s.db.QueryRow(
		`SELECT `+instrumentColumns+` FROM instrument WHERE id = ?`, instrumentID)

	var i model.Instrument
	err := row.Scan(&i.ID, &i.Symbol, &i.Name, &i.Exchange, &i.AssetClass, &i.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, apperrors.ErrInstrumentNotFound
	}
	if err != nil {
		return model.Instrument{}, fmt.Errorf("failed to query instrument table: %w", err)
	}
	return i, nil
}

// GetAllInstruments retrieves all instruments ordered by symbol.
func (s *InstrumentRepository) GetAllInstruments() ([]model.Instrument, error) {
	rows, err := s.db.Query(
		`SELECT ` + instrumentColumns + ` FROM instrument ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument table: %w", err)
	}
	defer rows.Close()

	instruments := []model.Instrument{}
	for rows.Next() {
		var i model.Instrument
		if err := rows.Scan(&i.ID, &i.Symbol, &i.Name, &i.Exchange, &i.AssetClass, &i.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan instrument table results: %w", err)
		}
		instruments = append(instruments, i)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument table: %w", err)
	}
	return instruments, nil
}

// InsertInstrument persists a new instrument. A duplicate (symbol, exchange)
// pair maps to ErrDuplicateEntry.
func (s *InstrumentRepository) InsertInstrument(i model.Instrument) error {
	_, err := s.db.Exec(
		`INSERT INTO instrument (id, symbol, name, exchange, asset_class, currency)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		i.ID, i.Symbol, i.Name, i.Exchange, i.AssetClass, i.Currency)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert instrument: %w", err)
	}
	return nil
}

// GetLatestPrice returns the most recent stored price for an instrument on
// or before the given date. Returns ErrPriceNotFound when nothing is stored;
// callers treat that as "fall back to average cost", not as a failure.
func (s *InstrumentRepository) GetLatestPrice(instrumentID string, asOf time.Time) (model.InstrumentPrice, error) {
	row := s.db.QueryRow(
		`SELECT id, instrument_id, date, price, source
		 FROM instrument_price
		 WHERE instrument_id = ? AND date <= ?
		 ORDER BY date DESC
		 LIMIT 1`,
		instrumentID, asOf.Format("2006-01-02"))

	var p model.InstrumentPrice
	var dateStr, priceStr string
	err := row.Scan(&p.ID, &p.InstrumentID, &dateStr, &priceStr, &p.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return model.InstrumentPrice{}, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return model.InstrumentPrice{}, fmt.Errorf("failed to query instrument_price table: %w", err)
	}
	if p.Date, err = ParseTime(dateStr); err != nil {
		return model.InstrumentPrice{}, err
	}
	if p.Price, err = ParseDecimal(priceStr); err != nil {
		return model.InstrumentPrice{}, err
	}
	return p, nil
}

// UpsertPrice stores or replaces the price for an (instrument, date) pair.
func (s *InstrumentRepository) UpsertPrice(p model.InstrumentPrice) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := s.db.Exec(
		`INSERT INTO instrument_price (id, instrument_id, date, price, source)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (instrument_id, date) DO UPDATE SET price = excluded.price, source = excluded.source`,
		p.ID, p.InstrumentID, p.Date.Format("2006-01-02"), p.Price.String(), p.Source)
	if err != nil {
		return fmt.Errorf("failed to upsert instrument price: %w", err)
	}
	return nil
}
