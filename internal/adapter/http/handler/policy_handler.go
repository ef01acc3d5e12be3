package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hansu/dayledger/internal/adapter/http/dto"
	"github.com/hansu/dayledger/internal/usecase"
)

// PolicyHandler handles attendance policy HTTP requests.
type PolicyHandler struct {
	attendanceUC *usecase.AttendanceUseCase
}

// NewPolicyHandler creates a new PolicyHandler.
func NewPolicyHandler(attendanceUC *usecase.AttendanceUseCase) *PolicyHandler {
	return &PolicyHandler{attendanceUC: attendanceUC}
}

// Get returns the resolved policy for a (site, identity), including the
// shared-row and default fallbacks.
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	accountID := q.Get("account_id")
	site := q.Get("site")
	if accountID == "" || site == "" {
		writeError(w, http.StatusBadRequest, "missing account_id or site", "")
		return
	}

	policy, err := h.attendanceUC.GetPolicy(r.Context(), accountID, site, q.Get("identity"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get policy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PolicyFromDomain(policy))
}

// Put stores a policy row.
func (h *PolicyHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req dto.PutPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.AccountID == "" || req.Site == "" {
		writeError(w, http.StatusBadRequest, "missing account_id or site", "")
		return
	}

	if err := h.attendanceUC.PutPolicy(r.Context(), req.ToDomain()); err != nil {
		writeError(w, mapDomainError(err), "failed to store policy", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
