// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Arianguy/Banko-sub000/internal/api/response"
	"github.com/Arianguy/Banko-sub000/internal/validation"
)

// ValidateUUIDParam returns middleware that validates the named URL
// parameter is present and a valid UUID, responding 400 otherwise.
//
// Example usage in router:
//
//	r.Route("/{instrumentId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDParam("instrumentId"))
//	    r.Get("/", handler.GetInstrument)
//	})
func ValidateUUIDParam(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)

			if id == "" {
				response.RespondError(w, http.StatusBadRequest, "valid UUID is required", "")
				return
			}

			if err := validation.ValidateUUID(id); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
