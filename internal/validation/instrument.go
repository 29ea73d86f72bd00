package validation

import (
	"fmt"
	"strings"

	"github.com/Arianguy/Banko-sub000/internal/api/request"
)

// ValidAssetClass contains the allowed asset class values.
var ValidAssetClass = map[string]bool{
	"equity": true, "mutual_fund": true,
}

// ValidateCreateInstrument validates an instrument registration request.
func ValidateCreateInstrument(req request.CreateInstrumentRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}
	if strings.TrimSpace(req.Exchange) == "" {
		errors["exchange"] = "exchange is required"
	}
	if strings.TrimSpace(req.AssetClass) == "" {
		errors["assetClass"] = "assetClass is required"
	} else if !ValidAssetClass[req.AssetClass] {
		errors["assetClass"] = fmt.Sprintf("invalid assetClass: %s", req.AssetClass)
	}
	if strings.TrimSpace(req.Currency) == "" {
		errors["currency"] = "currency is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
