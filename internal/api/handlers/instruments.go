package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Arianguy/Banko-sub000/internal/api/request"
	"github.com/Arianguy/Banko-sub000/internal/api/response"
	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/service"
	"github.com/Arianguy/Banko-sub000/internal/validation"
)

// InstrumentHandler handles HTTP requests for instrument endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the instrumentService.
type InstrumentHandler struct {
	instrumentService *service.InstrumentService
}

// NewInstrumentHandler creates a new InstrumentHandler with the provided service dependency.
func NewInstrumentHandler(instrumentService *service.InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService: instrumentService,
	}
}

// AllInstruments handles GET requests to retrieve all registered instruments.
//
// Endpoint: GET /api/instruments
// Response: 200 OK with array of Instrument
// Error: 500 Internal Server Error if retrieval fails
func (h *InstrumentHandler) AllInstruments(w http.ResponseWriter, _ *http.Request) {
	instruments, err := h.instrumentService.GetAllInstruments()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInstruments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, instruments)
}

// GetInstrument handles GET requests to retrieve a single instrument by ID.
//
// Endpoint: GET /api/instruments/{instrumentId}
// Response: 200 OK with Instrument
// Error: 400 Bad Request if instrument ID is invalid (validated by middleware)
// Error: 404 Not Found if instrument not found
// Error: 500 Internal Server Error if retrieval fails
func (h *InstrumentHandler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	instrumentID := chi.URLParam(r, "instrumentId")

	instrument, err := h.instrumentService.GetInstrument(instrumentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInstrumentNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInstrument.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, instrument)
}

// CreateInstrument handles POST requests to register a new instrument.
//
// Endpoint: POST /api/instruments
// Request Body: CreateInstrumentRequest (symbol, name, exchange, assetClass, currency)
// Response: 201 Created with Instrument
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the symbol/exchange pair already exists
// Error: 500 Internal Server Error if creation fails
func (h *InstrumentHandler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInstrumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInstrument(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(req.Symbol, req.Name, req.Exchange, req.AssetClass, req.Currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateEntry.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateInstrument.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, instrument)
}

// RefreshPrice handles POST requests to pull the latest quote from the
// configured price feed and store it for the instrument.
//
// Endpoint: POST /api/instruments/{instrumentId}/prices/refresh
// Response: 200 OK with the stored InstrumentPrice
// Error: 400 Bad Request if instrument ID is invalid (validated by middleware)
// Error: 404 Not Found if instrument not found
// Error: 500 Internal Server Error if the feed lookup or store fails
func (h *InstrumentHandler) RefreshPrice(w http.ResponseWriter, r *http.Request) {
	instrumentID := chi.URLParam(r, "instrumentId")

	price, err := h.instrumentService.RefreshPrice(instrumentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInstrumentNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrice.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, price)
}

// LatestPrice handles GET requests to retrieve the most recent stored price
// for an instrument on or before the given date.
//
// Endpoint: GET /api/instruments/{instrumentId}/prices/latest?asOf=YYYY-MM-DD
// Response: 200 OK with InstrumentPrice
// Error: 400 Bad Request if the instrument ID or asOf date is invalid
// Error: 404 Not Found if no price is stored for the instrument
// Error: 500 Internal Server Error if retrieval fails
func (h *InstrumentHandler) LatestPrice(w http.ResponseWriter, r *http.Request) {
	instrumentID := chi.URLParam(r, "instrumentId")

	asOf, err := parseDateQuery(r, "asOf")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid asOf date", err.Error())
		return
	}

	price, err := h.instrumentService.LatestPrice(instrumentID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrPriceNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPriceNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePrice.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, price)
}
