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

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Transactions handles GET requests to retrieve a user's transaction events,
// optionally filtered to a single instrument.
//
// Endpoint: GET /api/transactions?userId={uuid}&instrumentId={uuid}
// Response: 200 OK with array of Transaction in replay order
// Error: 400 Bad Request if the user ID is missing or invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
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

	transactions, err := h.transactionService.GetTransactions(userID, instrumentID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transactions/{transactionId}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")

	transaction, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to append a new event to a user's
// ledger. The event is trial-replayed against the instrument's stream before
// it is persisted; an event that would oversell or arrive out of order is
// rejected without touching stored state.
//
// Endpoint: POST /api/transactions
// Request Body: CreateTransactionRequest (userId, instrumentId, kind, quantity, occurredAt, ...)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the instrument does not exist
// Error: 409 Conflict if the event is rejected by the ledger
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInstrumentNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInsufficientLots):
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientLots.Error(), err.Error())
		case errors.Is(err, apperrors.ErrOutOfOrderEvent):
			response.RespondError(w, http.StatusConflict, apperrors.ErrOutOfOrderEvent.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidEvent):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidEvent.Error(), err.Error())
		case errors.Is(err, apperrors.ErrDuplicateEntry):
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateEntry.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateTransaction.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}
