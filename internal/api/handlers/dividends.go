package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Arianguy/Banko-sub000/internal/api/request"
	"github.com/Arianguy/Banko-sub000/internal/api/response"
	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/service"
	"github.com/Arianguy/Banko-sub000/internal/validation"
)

// DividendHandler handles HTTP requests for dividend event and entitlement
// endpoints. It serves as the HTTP layer adapter, parsing requests and
// delegating business logic to the dividendService.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// AllDividendEvents handles GET requests to retrieve all declared dividend events.
//
// Endpoint: GET /api/dividends
// Response: 200 OK with array of DividendEvent
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) AllDividendEvents(w http.ResponseWriter, _ *http.Request) {
	events, err := h.dividendService.GetAllDividendEvents()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, events)
}

// CreateDividendEvent handles POST requests to declare a new dividend for
// an instrument.
//
// Endpoint: POST /api/dividends
// Request Body: CreateDividendEventRequest (instrumentId, recordDate, paymentDate, amountPerShare)
// Response: 201 Created with DividendEvent
// Error: 400 Bad Request if validation fails or the payment date precedes the record date
// Error: 404 Not Found if the instrument does not exist
// Error: 500 Internal Server Error if creation fails
func (h *DividendHandler) CreateDividendEvent(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDividendEventRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDividendEvent(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	recordDate, err := time.Parse("2006-01-02", req.RecordDate)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid recordDate", err.Error())
		return
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid paymentDate", err.Error())
		return
	}

	event, err := h.dividendService.CreateDividendEvent(req.InstrumentID, recordDate, paymentDate, req.AmountPerShare)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInstrumentNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidDateRange):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateDividend.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, event)
}

// EvaluateEntitlement handles POST requests to evaluate a user's entitlement
// against a dividend event. The call is idempotent: re-evaluating an existing
// entitlement never recomputes the qualifying quantity, it only advances the
// status when the payment date has passed.
//
// Endpoint: POST /api/dividends/{dividendId}/evaluate
// Request Body: EvaluateEntitlementRequest (userId, optional now)
// Response: 200 OK with DividendEntitlement
// Error: 400 Bad Request if dividend ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the dividend event does not exist
// Error: 500 Internal Server Error if evaluation fails
func (h *DividendHandler) EvaluateEntitlement(w http.ResponseWriter, r *http.Request) {
	dividendEventID := chi.URLParam(r, "dividendId")

	req, err := parseJSON[request.EvaluateEntitlementRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateEvaluateEntitlement(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	now := time.Now().UTC()
	if req.Now != "" {
		if now, err = time.Parse("2006-01-02", req.Now); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid now date", err.Error())
			return
		}
	}

	entitlement, err := h.dividendService.Evaluate(r.Context(), req.UserID, dividendEventID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrDividendEventNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendEventNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToEvaluateEntitlement.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entitlement)
}

// ConfirmCredit handles POST requests to mark a received entitlement as
// credited to the user's account. Only the received → credited step is
// accepted; any other transition is rejected.
//
// Endpoint: POST /api/entitlements/{entitlementId}/credit
// Response: 200 OK with DividendEntitlement
// Error: 400 Bad Request if entitlement ID is invalid (validated by middleware)
// Error: 404 Not Found if the entitlement does not exist
// Error: 409 Conflict if the entitlement is not in the received status
// Error: 500 Internal Server Error if the update fails
func (h *DividendHandler) ConfirmCredit(w http.ResponseWriter, r *http.Request) {
	entitlementID := chi.URLParam(r, "entitlementId")

	entitlement, err := h.dividendService.ConfirmCredit(r.Context(), entitlementID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEntitlementNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrEntitlementNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidStatusTransition):
			response.RespondError(w, http.StatusConflict, apperrors.ErrInvalidStatusTransition.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreditEntitlement.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, entitlement)
}

// Entitlements handles GET requests to retrieve all of a user's dividend
// entitlements.
//
// Endpoint: GET /api/entitlements?userId={uuid}
// Response: 200 OK with array of DividendEntitlement
// Error: 400 Bad Request if the user ID is missing or invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) Entitlements(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if err := validation.ValidateUUID(userID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid userId", err.Error())
		return
	}

	entitlements, err := h.dividendService.GetEntitlementsByUser(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveEntitlements.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entitlements)
}
