package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/api/request"
)

// ValidTransactionKind contains the allowed event kind values.
var ValidTransactionKind = map[string]bool{
	"acquire": true, "bonus": true, "dispose": true,
}

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - userId, instrumentId: Must be valid UUIDs
//   - occurredAt: Must be in YYYY-MM-DD format
//   - kind: Must be one of: acquire, bonus, dispose
//   - quantity: Must be a positive decimal
//
// Optional decimal fields (unitPrice, fees, netAmount) must parse and must
// not be negative when present.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	if err := ValidateUUID(req.UserID); err != nil {
		return err
	}
	if err := ValidateUUID(req.InstrumentID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if strings.TrimSpace(req.OccurredAt) == "" {
		errors["occurredAt"] = "occurredAt is required"
	} else if _, err := time.Parse("2006-01-02", req.OccurredAt); err != nil {
		errors["occurredAt"] = err.Error()
	}

	if strings.TrimSpace(req.Kind) == "" {
		errors["kind"] = "kind is required"
	} else if !ValidTransactionKind[req.Kind] {
		errors["kind"] = fmt.Sprintf("invalid kind: %s", req.Kind)
	}

	if quantity, err := decimal.NewFromString(req.Quantity); err != nil {
		errors["quantity"] = "quantity must be a decimal number"
	} else if !quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	validateOptionalDecimal(errors, "unitPrice", req.UnitPrice)
	validateOptionalDecimal(errors, "fees", req.Fees)
	validateOptionalDecimal(errors, "netAmount", req.NetAmount)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateOptionalDecimal(errors map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		errors[field] = field + " must be a decimal number"
		return
	}
	if d.IsNegative() {
		errors[field] = field + " must not be negative"
	}
}
