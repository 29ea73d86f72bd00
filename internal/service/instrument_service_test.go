package service_test

import (
	"errors"
	"testing"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/testutil"
)

// TestInstrumentService_CreateInstrument tests instrument registration.
//
// WHY: Instruments are the anchor for every event stream; duplicates on
// (symbol, exchange) must be rejected so streams can never split across
// two registry rows.
func TestInstrumentService_CreateInstrument(t *testing.T) {
	t.Run("creates and retrieves an instrument", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstrumentService(t, db)

		created, err := svc.CreateInstrument("TCS", "Tata Consultancy Services", "NSE", "equity", "INR")
		if err != nil {
			t.Fatalf("CreateInstrument() returned unexpected error: %v", err)
		}

		fetched, err := svc.GetInstrument(created.ID)
		if err != nil {
			t.Fatalf("GetInstrument() returned unexpected error: %v", err)
		}
		if fetched.Symbol != "TCS" || fetched.Exchange != "NSE" {
			t.Errorf("Expected TCS/NSE, got %s/%s", fetched.Symbol, fetched.Exchange)
		}
	})

	t.Run("rejects duplicate symbol and exchange", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstrumentService(t, db)

		if _, err := svc.CreateInstrument("TCS", "Tata Consultancy Services", "NSE", "equity", "INR"); err != nil {
			t.Fatalf("CreateInstrument() returned unexpected error: %v", err)
		}

		_, err := svc.CreateInstrument("TCS", "Duplicate listing", "NSE", "equity", "INR")
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
	})

	t.Run("allows the same symbol on another exchange", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstrumentService(t, db)

		if _, err := svc.CreateInstrument("TCS", "Tata Consultancy Services", "NSE", "equity", "INR"); err != nil {
			t.Fatalf("CreateInstrument() returned unexpected error: %v", err)
		}
		if _, err := svc.CreateInstrument("TCS", "Tata Consultancy Services", "BSE", "equity", "INR"); err != nil {
			t.Errorf("Expected cross-exchange listing to succeed, got %v", err)
		}
	})
}

// TestInstrumentService_RefreshPrice tests the feed-backed price refresh.
//
// WHY: Refresh is the only automated write into the price table. It must
// store what the feed returned, and a feed failure must not corrupt or
// erase existing prices.
func TestInstrumentService_RefreshPrice(t *testing.T) {
	t.Run("stores the fetched quote", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient().WithClose("3512.80")
		svc := testutil.NewTestInstrumentServiceWithFeed(t, db, mock)
		instrument := testutil.NewInstrument().Build(t, db)

		price, err := svc.RefreshPrice(instrument.ID)
		if err != nil {
			t.Fatalf("RefreshPrice() returned unexpected error: %v", err)
		}

		if price.Price.String() != "3512.8" {
			t.Errorf("Expected price 3512.8, got %s", price.Price)
		}
		if price.Source != "feed" {
			t.Errorf("Expected source feed, got %s", price.Source)
		}
		if mock.QueryCount != 1 {
			t.Errorf("Expected 1 feed query, got %d", mock.QueryCount)
		}

		stored, err := svc.LatestPrice(instrument.ID, price.Date)
		if err != nil {
			t.Fatalf("LatestPrice() returned unexpected error: %v", err)
		}
		if stored.Price.String() != "3512.8" {
			t.Errorf("Expected stored price 3512.8, got %s", stored.Price)
		}
	})

	t.Run("feed failure leaves stored prices untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient().WithError(errors.New("feed unavailable"))
		svc := testutil.NewTestInstrumentServiceWithFeed(t, db, mock)
		instrument := testutil.NewInstrument().Build(t, db)
		testutil.CreatePrice(t, db, instrument.ID, "2024-05-01", "100")

		if _, err := svc.RefreshPrice(instrument.ID); err == nil {
			t.Fatal("Expected error from failing feed, got nil")
		}

		stored, err := svc.LatestPrice(instrument.ID, date(t, "2024-06-01"))
		if err != nil {
			t.Fatalf("LatestPrice() returned unexpected error: %v", err)
		}
		if stored.Price.String() != "100" {
			t.Errorf("Expected previous price 100 to survive, got %s", stored.Price)
		}
	})

	t.Run("unknown instrument is rejected before querying the feed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient()
		svc := testutil.NewTestInstrumentServiceWithFeed(t, db, mock)

		_, err := svc.RefreshPrice(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrInstrumentNotFound) {
			t.Fatalf("Expected ErrInstrumentNotFound, got %v", err)
		}
		if mock.QueryCount != 0 {
			t.Errorf("Expected no feed queries, got %d", mock.QueryCount)
		}
	})
}
