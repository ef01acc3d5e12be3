package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hansu/dayledger/internal/adapter/http/dto"
	"github.com/hansu/dayledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var abort *domain.CascadeAbortError
	if errors.As(err, &abort) {
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPolicyNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateOrder):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRevisionConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrManualAttendanceOnly):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownSite):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownIdentity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidSlotIndex):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCrossJournalSwap):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
