package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Arianguy/Banko-sub000/internal/api/request"
	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/model"
	"github.com/Arianguy/Banko-sub000/internal/testutil"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Invalid test date %q: %v", value, err)
	}
	return parsed
}

func requestForDispose(userID, instrumentID, quantity, unitPrice, occurredAt string) request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		UserID:       userID,
		InstrumentID: instrumentID,
		Kind:         "dispose",
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		OccurredAt:   occurredAt,
	}
}

// TestDividendService_CreateDividendEvent tests dividend declaration.
//
// WHY: A payment date before the record date would make every downstream
// status computation nonsensical, so the declaration must reject it up front.
func TestDividendService_CreateDividendEvent(t *testing.T) {
	t.Run("creates event for known instrument", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)

		event, err := svc.CreateDividendEvent(instrument.ID, date(t, "2024-06-01"), date(t, "2024-06-15"), "2.50")
		if err != nil {
			t.Fatalf("CreateDividendEvent() returned unexpected error: %v", err)
		}
		if event.AmountPerShare.String() != "2.5" {
			t.Errorf("Expected amount per share 2.5, got %s", event.AmountPerShare)
		}
	})

	t.Run("rejects payment date before record date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)

		_, err := svc.CreateDividendEvent(instrument.ID, date(t, "2024-06-15"), date(t, "2024-06-01"), "2.50")
		if !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("rejects unknown instrument", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		_, err := svc.CreateDividendEvent(testutil.MakeID(), date(t, "2024-06-01"), date(t, "2024-06-15"), "2.50")
		if !errors.Is(err, apperrors.ErrInstrumentNotFound) {
			t.Errorf("Expected ErrInstrumentNotFound, got %v", err)
		}
	})
}

// TestDividendService_Evaluate tests first-time entitlement evaluation.
//
// WHY: The qualifying quantity must come from the record-date holdings and
// nothing else. Evaluating before or after the payment date decides the
// initial status; evaluating with no holdings must still succeed with zero.
func TestDividendService_Evaluate(t *testing.T) {
	t.Run("qualifies record-date holdings before payment date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("100").WithNetAmount("10000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").
			WithAmountPerShare("2.50").Build(t, db)

		entitlement, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}

		if entitlement.Status != model.StatusQualified {
			t.Errorf("Expected status qualified, got %s", entitlement.Status)
		}
		if entitlement.QualifyingQuantity.String() != "100" {
			t.Errorf("Expected qualifying quantity 100, got %s", entitlement.QualifyingQuantity)
		}
		if entitlement.Amount.String() != "250" {
			t.Errorf("Expected amount 250, got %s", entitlement.Amount)
		}
	})

	t.Run("starts as received when payment date has passed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("40").WithNetAmount("4000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		entitlement, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-07-01"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}
		if entitlement.Status != model.StatusReceived {
			t.Errorf("Expected status received, got %s", entitlement.Status)
		}
	})

	t.Run("ignores acquisitions after the record date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("100").WithNetAmount("10000").
			On("2024-05-01", 1).Build(t, db)
		// After the record date; must not count.
		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("50").WithNetAmount("6000").
			On("2024-06-05", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		entitlement, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-10"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}
		if entitlement.QualifyingQuantity.String() != "100" {
			t.Errorf("Expected qualifying quantity 100, got %s", entitlement.QualifyingQuantity)
		}
	})

	t.Run("zero holdings evaluate to zero entitlement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		event := testutil.NewDividendEvent(instrument.ID).Build(t, db)

		entitlement, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}
		if !entitlement.QualifyingQuantity.IsZero() || !entitlement.Amount.IsZero() {
			t.Errorf("Expected zero entitlement, got quantity %s amount %s",
				entitlement.QualifyingQuantity, entitlement.Amount)
		}
	})

	t.Run("unknown dividend event is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		_, err := svc.Evaluate(context.Background(), testutil.MakeID(), testutil.MakeID(), date(t, "2024-06-05"))
		if !errors.Is(err, apperrors.ErrDividendEventNotFound) {
			t.Errorf("Expected ErrDividendEventNotFound, got %v", err)
		}
	})
}

// TestDividendService_Evaluate_Idempotence tests re-evaluation semantics.
//
// WHY: Evaluation runs from user requests and the sweep alike; running it
// twice must never duplicate an entitlement or recompute a quantity that was
// fixed on the record date, even when the position changed since.
func TestDividendService_Evaluate_Idempotence(t *testing.T) {
	t.Run("re-evaluation returns the same record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("100").WithNetAmount("10000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		first, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("First Evaluate() returned unexpected error: %v", err)
		}
		second, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-06"))
		if err != nil {
			t.Fatalf("Second Evaluate() returned unexpected error: %v", err)
		}

		if first.ID != second.ID {
			t.Errorf("Expected same entitlement ID, got %s and %s", first.ID, second.ID)
		}

		entitlements, err := svc.GetEntitlementsByUser(userID)
		if err != nil {
			t.Fatalf("GetEntitlementsByUser() returned unexpected error: %v", err)
		}
		if len(entitlements) != 1 {
			t.Errorf("Expected 1 entitlement, got %d", len(entitlements))
		}
	})

	t.Run("pinned quantity survives later disposals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		txnSvc := testutil.NewTestTransactionService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("100").WithUnitPrice("100").WithNetAmount("10000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		first, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}

		// Dispose most of the position after the record date.
		if _, err := txnSvc.CreateTransaction(context.Background(), requestForDispose(userID, instrument.ID, "60", "110", "2024-06-10")); err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}

		second, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-12"))
		if err != nil {
			t.Fatalf("Re-Evaluate() returned unexpected error: %v", err)
		}

		if second.QualifyingQuantity.String() != first.QualifyingQuantity.String() {
			t.Errorf("Qualifying quantity changed from %s to %s after disposal",
				first.QualifyingQuantity, second.QualifyingQuantity)
		}
	})

	t.Run("re-evaluation after payment date advances to received", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("10").WithNetAmount("1000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		first, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}
		if first.Status != model.StatusQualified {
			t.Fatalf("Expected initial status qualified, got %s", first.Status)
		}

		second, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-20"))
		if err != nil {
			t.Fatalf("Re-Evaluate() returned unexpected error: %v", err)
		}
		if second.Status != model.StatusReceived {
			t.Errorf("Expected status received after payment date, got %s", second.Status)
		}
	})
}

// TestDividendService_ConfirmCredit tests the terminal transition.
//
// WHY: Credited is the only terminal state and can only be entered from
// received; skipping from qualified or re-crediting must fail loudly.
func TestDividendService_ConfirmCredit(t *testing.T) {
	t.Run("credits a received entitlement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("10").WithNetAmount("1000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		received, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-07-01"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}

		credited, err := svc.ConfirmCredit(context.Background(), received.ID, date(t, "2024-07-02"))
		if err != nil {
			t.Fatalf("ConfirmCredit() returned unexpected error: %v", err)
		}
		if credited.Status != model.StatusCredited {
			t.Errorf("Expected status credited, got %s", credited.Status)
		}
	})

	t.Run("rejects crediting a qualified entitlement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("10").WithNetAmount("1000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		qualified, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}

		_, err = svc.ConfirmCredit(context.Background(), qualified.ID, date(t, "2024-06-06"))
		if !errors.Is(err, apperrors.ErrInvalidStatusTransition) {
			t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
		}
	})

	t.Run("rejects re-crediting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("10").WithNetAmount("1000").
			On("2024-05-01", 1).Build(t, db)
		event := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)

		received, err := svc.Evaluate(context.Background(), userID, event.ID, date(t, "2024-07-01"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}
		if _, err := svc.ConfirmCredit(context.Background(), received.ID, date(t, "2024-07-02")); err != nil {
			t.Fatalf("ConfirmCredit() returned unexpected error: %v", err)
		}

		_, err = svc.ConfirmCredit(context.Background(), received.ID, date(t, "2024-07-03"))
		if !errors.Is(err, apperrors.ErrInvalidStatusTransition) {
			t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
		}
	})
}

// TestDividendService_Sweep tests the scheduled payment-date sweep.
//
// WHY: The sweep is what moves entitlements forward without user requests.
// It must advance exactly the due ones and count them, skipping the rest.
func TestDividendService_Sweep(t *testing.T) {
	t.Run("advances only entitlements past their payment date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)
		instrument := testutil.NewInstrument().Build(t, db)
		userID := testutil.MakeID()

		testutil.NewTransaction(userID, instrument.ID).
			WithQuantity("10").WithNetAmount("1000").
			On("2024-05-01", 1).Build(t, db)

		dueEvent := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-06-15").Build(t, db)
		futureEvent := testutil.NewDividendEvent(instrument.ID).
			WithDates("2024-06-01", "2024-09-15").Build(t, db)

		due, err := svc.Evaluate(context.Background(), userID, dueEvent.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}
		future, err := svc.Evaluate(context.Background(), userID, futureEvent.ID, date(t, "2024-06-05"))
		if err != nil {
			t.Fatalf("Evaluate() returned unexpected error: %v", err)
		}

		advanced, err := svc.Sweep(context.Background(), date(t, "2024-07-01"))
		if err != nil {
			t.Fatalf("Sweep() returned unexpected error: %v", err)
		}
		if advanced != 1 {
			t.Errorf("Expected 1 advanced entitlement, got %d", advanced)
		}

		entitlements, err := svc.GetEntitlementsByUser(userID)
		if err != nil {
			t.Fatalf("GetEntitlementsByUser() returned unexpected error: %v", err)
		}
		for _, e := range entitlements {
			switch e.ID {
			case due.ID:
				if e.Status != model.StatusReceived {
					t.Errorf("Expected due entitlement to be received, got %s", e.Status)
				}
			case future.ID:
				if e.Status != model.StatusQualified {
					t.Errorf("Expected future entitlement to stay qualified, got %s", e.Status)
				}
			}
		}
	})

	t.Run("sweep with nothing due advances nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		advanced, err := svc.Sweep(context.Background(), date(t, "2024-07-01"))
		if err != nil {
			t.Fatalf("Sweep() returned unexpected error: %v", err)
		}
		if advanced != 0 {
			t.Errorf("Expected 0 advanced entitlements, got %d", advanced)
		}
	})
}
