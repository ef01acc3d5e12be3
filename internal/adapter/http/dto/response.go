package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/usecase"
)

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Date          string          `json:"date"`
	Order         int             `json:"order"`
	Revision      int64           `json:"revision"`
	Annotation    string          `json:"annotation"`
	Slots         []SlotPayload   `json:"slots"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	RateAmount    decimal.Decimal `json:"rate_amount"`
	CarriedAmount decimal.Decimal `json:"carried_amount"`
	PrivateAmount decimal.Decimal `json:"private_amount"`
	TotalCharge   decimal.Decimal `json:"total_charge"`
	Margin        decimal.Decimal `json:"margin"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	slots := make([]SlotPayload, domain.SlotCount)
	for i, s := range e.Slots {
		slots[i] = SlotPayload(s)
	}

	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Date:          domain.FormatDate(e.Date),
		Order:         e.Order,
		Revision:      e.Revision,
		Annotation:    e.Annotation,
		Slots:         slots,
		BaseAmount:    e.BaseAmount,
		TotalAmount:   e.TotalAmount,
		RateAmount:    e.RateAmount,
		CarriedAmount: e.Derived.CarriedAmount,
		PrivateAmount: e.Derived.PrivateAmount,
		TotalCharge:   e.Derived.TotalCharge,
		Margin:        e.Derived.Margin,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// JournalResponse represents one day's ordered journal.
type JournalResponse struct {
	Entries   []*EntryResponse `json:"entries"`
	MarginSum decimal.Decimal  `json:"margin_sum"`
}

// JournalFromView converts a journal view to a response.
func JournalFromView(view *usecase.JournalView) *JournalResponse {
	entries := make([]*EntryResponse, len(view.Entries))
	for i, e := range view.Entries {
		entries[i] = EntryFromDomain(e)
	}

	return &JournalResponse{
		Entries:   entries,
		MarginSum: view.MarginSum,
	}
}

// SaveResponse reports the outcome of an entry save.
type SaveResponse struct {
	Entry   *EntryResponse `json:"entry,omitempty"`
	Dropped bool           `json:"dropped"`
}

// SaveFromResult converts a save result to a response.
func SaveFromResult(result *usecase.SaveResult) *SaveResponse {
	resp := &SaveResponse{Dropped: result.Dropped}
	if result.Entry != nil {
		resp.Entry = EntryFromDomain(result.Entry)
	}
	return resp
}

// ToggleResponse reports the recomputed streak after a manual toggle.
type ToggleResponse struct {
	Action          string `json:"action"`
	ConsecutiveDays int    `json:"consecutive_days"`
	TotalDays       int    `json:"total_days"`
}

// ToggleFromResult converts a toggle result to a response.
func ToggleFromResult(result *usecase.ToggleResult) *ToggleResponse {
	return &ToggleResponse{
		Action:          string(result.Action),
		ConsecutiveDays: result.ConsecutiveDays,
		TotalDays:       result.TotalDays,
	}
}

// StatsResponse is one element of a batch stats response.
type StatsResponse struct {
	Site            string `json:"site"`
	Identity        string `json:"identity"`
	ConsecutiveDays int    `json:"consecutive_days"`
	TotalDays       int    `json:"total_days"`
	Error           string `json:"error,omitempty"`
}

// StatsFromResults converts batch stats results to responses.
func StatsFromResults(results []usecase.StatsResult) []StatsResponse {
	out := make([]StatsResponse, len(results))
	for i, r := range results {
		out[i] = StatsResponse{
			Site:            r.Site,
			Identity:        r.Identity,
			ConsecutiveDays: r.ConsecutiveDays,
			TotalDays:       r.TotalDays,
		}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

// PolicyResponse represents an attendance policy in API responses.
type PolicyResponse struct {
	AccountID      string `json:"account_id"`
	Site           string `json:"site"`
	Identity       string `json:"identity"`
	AttendanceType string `json:"attendance_type"`
	Rollover       string `json:"rollover"`
}

// PolicyFromDomain converts a domain policy to a response.
func PolicyFromDomain(p domain.AttendancePolicy) *PolicyResponse {
	return &PolicyResponse{
		AccountID:      p.AccountID,
		Site:           p.Site,
		Identity:       p.Identity,
		AttendanceType: string(p.AttendanceType),
		Rollover:       string(p.Rollover),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
