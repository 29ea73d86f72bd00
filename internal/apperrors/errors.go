package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrInstrumentNotFound indicates that an instrument with the given ID does not exist.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrTransactionNotFound indicates that a transaction event with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDividendEventNotFound indicates that a dividend event with the given ID does not exist.
	ErrDividendEventNotFound = errors.New("dividend event not found")

	// ErrEntitlementNotFound indicates that a dividend entitlement record does not exist.
	ErrEntitlementNotFound = errors.New("dividend entitlement not found")

	// ErrPriceNotFound indicates no stored price for a specific instrument and date combination.
	ErrPriceNotFound = errors.New("instrument price not found")

	// ErrSettingNotFound indicates that a settings key has not been configured.
	ErrSettingNotFound = errors.New("setting not found")
)

// Ledger errors represent violations of the replay contract. A replay that
// fails with any of these produces no state at all, never a partially
// applied lot set.
var (
	// ErrInvalidEvent indicates an event that fails its per-kind validation
	// rules (non-positive quantity, negative price or fees, unknown kind).
	ErrInvalidEvent = errors.New("invalid ledger event")

	// ErrInsufficientLots indicates a disposal whose quantity exceeds the
	// open lots available. The ledger never clamps or goes negative.
	ErrInsufficientLots = errors.New("insufficient lots for disposal")

	// ErrOutOfOrderEvent indicates an event whose (occurred_at, sequence) is
	// not strictly after the previously processed event for the instrument.
	ErrOutOfOrderEvent = errors.New("event out of order")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateEntitlement indicates that an entitlement already exists for
	// the (user, dividend event) pair. Recoverable: evaluation collapses to a
	// status advance of the existing record.
	ErrDuplicateEntitlement = errors.New("duplicate dividend entitlement")

	// ErrInvalidStatusTransition indicates an attempt to move an entitlement
	// backwards or to skip a state in its forward-only lifecycle.
	ErrInvalidStatusTransition = errors.New("invalid entitlement status transition")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInstrumentInUse indicates that an instrument cannot be removed
	// because transaction events reference it.
	ErrInstrumentInUse = errors.New("instrument is in use")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., an entitlement references a dividend event that doesn't exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Operation errors represent failures during data operations.
// Handlers surface these as the stable, user-facing error message while the
// underlying cause travels in the response details.
var (
	// Instrument operations
	ErrFailedToRetrieveInstruments = errors.New("failed to retrieve instruments")
	ErrFailedToRetrieveInstrument  = errors.New("failed to retrieve instrument")
	ErrFailedToCreateInstrument    = errors.New("failed to create instrument")
	ErrFailedToRetrievePrice       = errors.New("failed to retrieve price")
	ErrFailedToRefreshPrice        = errors.New("failed to refresh price")

	// Transaction operations
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")

	// Holding and portfolio operations
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToGetPortfolioSummary  = errors.New("failed to get portfolio summary")
	ErrFailedToRetrieveRealizations = errors.New("failed to retrieve realizations")

	// Dividend operations
	ErrFailedToRetrieveDividends    = errors.New("failed to retrieve dividend events")
	ErrFailedToCreateDividend       = errors.New("failed to create dividend event")
	ErrFailedToEvaluateEntitlement  = errors.New("failed to evaluate entitlement")
	ErrFailedToCreditEntitlement    = errors.New("failed to credit entitlement")
	ErrFailedToRetrieveEntitlements = errors.New("failed to retrieve entitlements")
)
