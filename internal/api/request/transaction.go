package request

// CreateTransactionRequest carries one new ledger event. Quantity, prices
// and amounts travel as decimal strings so no precision is lost in JSON.
// NetAmount is optional: when omitted it is derived from quantity, unit
// price and fees per the event kind's convention.
type CreateTransactionRequest struct {
	UserID       string `json:"userId"`
	InstrumentID string `json:"instrumentId"`
	Kind         string `json:"kind"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unitPrice,omitempty"`
	Fees         string `json:"fees,omitempty"`
	NetAmount    string `json:"netAmount,omitempty"`
	OccurredAt   string `json:"occurredAt"`
}
