package request

// CreateDividendEventRequest declares a dividend for an instrument.
type CreateDividendEventRequest struct {
	InstrumentID   string `json:"instrumentId"`
	RecordDate     string `json:"recordDate"`
	PaymentDate    string `json:"paymentDate"`
	AmountPerShare string `json:"amountPerShare"`
}

// EvaluateEntitlementRequest asks for an entitlement evaluation for a user
// against a dividend event. Now is optional (YYYY-MM-DD); it defaults to
// the server's current date and exists so sweeps and tests can evaluate at
// a fixed point in time.
type EvaluateEntitlementRequest struct {
	UserID string `json:"userId"`
	Now    string `json:"now,omitempty"`
}
