package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/api/request"
)

// ValidateCreateDividendEvent validates a dividend declaration request.
func ValidateCreateDividendEvent(req request.CreateDividendEventRequest) error {
	if err := ValidateUUID(req.InstrumentID); err != nil {
		return err
	}

	errors := make(map[string]string)

	recordDate, recordErr := time.Parse("2006-01-02", req.RecordDate)
	if recordErr != nil {
		errors["recordDate"] = "recordDate must be in YYYY-MM-DD format"
	}
	paymentDate, paymentErr := time.Parse("2006-01-02", req.PaymentDate)
	if paymentErr != nil {
		errors["paymentDate"] = "paymentDate must be in YYYY-MM-DD format"
	}
	if recordErr == nil && paymentErr == nil && paymentDate.Before(recordDate) {
		errors["paymentDate"] = "paymentDate must not be before recordDate"
	}

	if amount, err := decimal.NewFromString(req.AmountPerShare); err != nil {
		errors["amountPerShare"] = "amountPerShare must be a decimal number"
	} else if !amount.IsPositive() {
		errors["amountPerShare"] = "amountPerShare must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateEvaluateEntitlement validates an entitlement evaluation request.
func ValidateEvaluateEntitlement(req request.EvaluateEntitlementRequest) error {
	if err := ValidateUUID(req.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(req.Now) != "" {
		if _, err := time.Parse("2006-01-02", req.Now); err != nil {
			return &Error{Fields: map[string]string{"now": "now must be in YYYY-MM-DD format"}}
		}
	}
	return nil
}
