package request

// CreateInstrumentRequest registers a new tradable instrument.
type CreateInstrumentRequest struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Exchange   string `json:"exchange"`
	AssetClass string `json:"assetClass"`
	Currency   string `json:"currency"`
}
