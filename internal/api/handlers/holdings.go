package handlers

import (
	"net/http"

	"github.com/Arianguy/Banko-sub000/internal/api/response"
	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/service"
	"github.com/Arianguy/Banko-sub000/internal/validation"
)

// HoldingHandler handles HTTP requests for holdings, portfolio summary and
// realization endpoints. Every response is computed by replaying the user's
// event streams; nothing here reads cached positions.
type HoldingHandler struct {
	holdingService   *service.HoldingService
	portfolioService *service.PortfolioService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependencies.
func NewHoldingHandler(holdingService *service.HoldingService, portfolioService *service.PortfolioService) *HoldingHandler {
	return &HoldingHandler{
		holdingService:   holdingService,
		portfolioService: portfolioService,
	}
}

// Holdings handles GET requests to retrieve a user's open positions with
// cost basis and valuation.
//
// Endpoint: GET /api/holdings?userId={uuid}&asOf=YYYY-MM-DD
// Response: 200 OK with array of HoldingView (closed positions excluded)
// Error: 400 Bad Request if the user ID or asOf date is invalid
// Error: 500 Internal Server Error if replay or retrieval fails
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if err := validation.ValidateUUID(userID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid userId", err.Error())
		return
	}

	asOf, err := parseDateQuery(r, "asOf")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid asOf date", err.Error())
		return
	}

	holdings, err := h.holdingService.GetHoldings(userID, asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// PortfolioSummary handles GET requests to retrieve the portfolio-level
// rollup: totals, per-position weights and best/worst performers.
//
// Endpoint: GET /api/portfolio/summary?userId={uuid}&asOf=YYYY-MM-DD
// Response: 200 OK with PortfolioSummary
// Error: 400 Bad Request if the user ID or asOf date is invalid
// Error: 500 Internal Server Error if the rollup fails
func (h *HoldingHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if err := validation.ValidateUUID(userID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid userId", err.Error())
		return
	}

	asOf, err := parseDateQuery(r, "asOf")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid asOf date", err.Error())
		return
	}

	summary, err := h.portfolioService.GetSummary(userID, asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolioSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Realizations handles GET requests to retrieve a user's realized gain/loss
// records, optionally filtered to a single instrument.
//
// Endpoint: GET /api/realizations?userId={uuid}&instrumentId={uuid}
// Response: 200 OK with array of Realization in disposal order
// Error: 400 Bad Request if the user ID or instrument ID is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Realizations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if err := validation.ValidateUUID(userID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid userId", err.Error())
		return
	}

	instrumentID := r.URL.Query().Get("instrumentId")
	if instrumentID != "" {
		if err := validation.ValidateUUID(instrumentID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid instrumentId", err.Error())
			return
		}
	}

	realizations, err := h.portfolioService.GetRealizations(userID, instrumentID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveRealizations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, realizations)
}
