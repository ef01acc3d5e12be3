package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hansu/dayledger/internal/adapter/http/dto"
	"github.com/hansu/dayledger/internal/usecase"
)

// AttendanceHandler handles attendance-related HTTP requests.
type AttendanceHandler struct {
	attendanceUC *usecase.AttendanceUseCase
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceUC *usecase.AttendanceUseCase) *AttendanceHandler {
	return &AttendanceHandler{attendanceUC: attendanceUC}
}

// Toggle flips manual attendance for one (site, identity, date).
func (h *AttendanceHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	result, err := h.attendanceUC.ToggleManual(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to toggle attendance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ToggleFromResult(result))
}

// BatchStats reads attendance stats for a list of (site, identity) pairs.
// Exhausted retries degrade to the last known value, so this never fails as a
// whole.
func (h *AttendanceHandler) BatchStats(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "missing account_id", "")
		return
	}

	results := h.attendanceUC.BatchStats(r.Context(), req.AccountID, req.ToUseCasePairs())

	writeJSON(w, http.StatusOK, map[string]any{
		"results": dto.StatsFromResults(results),
	})
}
