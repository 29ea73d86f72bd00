package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/Arianguy/Banko-sub000/internal/pricefeed"
	"github.com/Arianguy/Banko-sub000/internal/repository"
	"github.com/Arianguy/Banko-sub000/internal/service"
)

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	realizationRepo := repository.NewRealizationRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)

	return service.NewTransactionService(
		transactionRepo,
		realizationRepo,
		instrumentRepo,
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()

	instrumentRepo := repository.NewInstrumentRepository(db)

	return service.NewHoldingService(
		NewTestTransactionService(t, db),
		instrumentRepo,
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	realizationRepo := repository.NewRealizationRepository(db)
	dividendRepo := repository.NewDividendRepository(db)

	return service.NewPortfolioService(
		NewTestHoldingService(t, db),
		realizationRepo,
		dividendRepo,
	)
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	dividendRepo := repository.NewDividendRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)

	return service.NewDividendService(
		dividendRepo,
		instrumentRepo,
		NewTestHoldingService(t, db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

func NewTestInstrumentService(t *testing.T, db *sql.DB) *service.InstrumentService {
	t.Helper()

	instrumentRepo := repository.NewInstrumentRepository(db)

	return service.NewInstrumentService(
		instrumentRepo,
		NewMockFeedClient(),
	)
}

// NewTestInstrumentServiceWithFeed creates an InstrumentService with the
// given feed client. Useful for testing price refresh without real HTTP calls.
func NewTestInstrumentServiceWithFeed(t *testing.T, db *sql.DB, feedClient pricefeed.Client) *service.InstrumentService {
	t.Helper()

	instrumentRepo := repository.NewInstrumentRepository(db)

	return service.NewInstrumentService(
		instrumentRepo,
		feedClient,
	)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("TST")
//	// Returns: "TST1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
