package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hansu/dayledger/internal/adapter/http/dto"
	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/usecase"
)

// JournalHandler handles journal-related HTTP requests.
type JournalHandler struct {
	journalUC *usecase.JournalUseCase
	syncUC    *usecase.SyncUseCase
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC *usecase.JournalUseCase, syncUC *usecase.SyncUseCase) *JournalHandler {
	return &JournalHandler{journalUC: journalUC, syncUC: syncUC}
}

// Get returns one day's ordered journal with its margin sum.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account_id", "")
		return
	}

	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	view, err := h.journalUC.GetJournal(r.Context(), accountID, date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get journal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromView(view))
}

// CreateEntry creates a new entry and cascades the journal.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	entry, err := h.journalUC.CreateEntry(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// SaveEntry applies an entry edit through the sync layer. A save issued while
// another is outstanding for the same entry reports dropped instead of
// queueing.
func (h *JournalHandler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	result, err := h.syncUC.SaveEntry(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to save entry", err.Error())
		return
	}

	status := http.StatusOK
	if result.Dropped {
		status = http.StatusAccepted
	}

	writeJSON(w, status, dto.SaveFromResult(result))
}

// DeleteEntry removes an entry and cascades the rest of the journal.
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	if err := h.journalUC.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete entry", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder applies a bulk order change and re-cascades the journal.
func (h *JournalHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	if err := h.journalUC.Reorder(r.Context(), req.AccountID, date, req.ToOrderChanges()); err != nil {
		writeError(w, mapDomainError(err), "failed to reorder journal", err.Error())
		return
	}

	view, err := h.journalUC.GetJournal(r.Context(), req.AccountID, date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reload journal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromView(view))
}

// SwapSlots exchanges two slots as one coordinated edit.
func (h *JournalHandler) SwapSlots(w http.ResponseWriter, r *http.Request) {
	var req dto.SwapSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.journalUC.SwapSlots(r.Context(), req.ToUseCaseInput()); err != nil {
		writeError(w, mapDomainError(err), "failed to swap slots", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
