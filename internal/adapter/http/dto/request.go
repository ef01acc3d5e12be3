package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/usecase"
)

// SlotPayload represents one site slot in requests and responses.
type SlotPayload struct {
	Identity string          `json:"identity"`
	Site     string          `json:"site"`
	Deposit  decimal.Decimal `json:"deposit"`
	Withdraw decimal.Decimal `json:"withdraw"`
	Attended bool            `json:"attended"`
}

// CreateEntryRequest represents a request to create a ledger entry.
type CreateEntryRequest struct {
	AccountID   string          `json:"account_id"`
	Date        string          `json:"date"`
	Annotation  string          `json:"annotation"`
	Slots       []SlotPayload   `json:"slots"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RateAmount  decimal.Decimal `json:"rate_amount"`
	Order       *int            `json:"order,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() (usecase.EntryInput, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return usecase.EntryInput{}, err
	}

	return usecase.EntryInput{
		AccountID:   r.AccountID,
		Date:        date,
		Annotation:  r.Annotation,
		Slots:       slotsFromPayload(r.Slots),
		BaseAmount:  r.BaseAmount,
		TotalAmount: r.TotalAmount,
		RateAmount:  r.RateAmount,
		Order:       r.Order,
	}, nil
}

// UpdateEntryRequest represents a request to save an edited entry.
type UpdateEntryRequest struct {
	Revision    int64           `json:"revision"`
	AccountID   string          `json:"account_id"`
	Date        string          `json:"date"`
	Annotation  string          `json:"annotation"`
	Slots       []SlotPayload   `json:"slots"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RateAmount  decimal.Decimal `json:"rate_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput(entryID string) (usecase.UpdateEntryInput, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return usecase.UpdateEntryInput{}, err
	}

	return usecase.UpdateEntryInput{
		EntryID:  entryID,
		Revision: r.Revision,
		Fields: usecase.EntryInput{
			AccountID:   r.AccountID,
			Date:        date,
			Annotation:  r.Annotation,
			Slots:       slotsFromPayload(r.Slots),
			BaseAmount:  r.BaseAmount,
			TotalAmount: r.TotalAmount,
			RateAmount:  r.RateAmount,
		},
	}, nil
}

// ReorderRequest represents a bulk reorder of one day's journal.
type ReorderRequest struct {
	AccountID string        `json:"account_id"`
	Date      string        `json:"date"`
	Orders    []OrderChange `json:"orders"`
}

// OrderChange is one (entry, order) pair in a reorder.
type OrderChange struct {
	EntryID string `json:"entry_id"`
	Order   int    `json:"order"`
}

// ToOrderChanges converts to domain order changes.
func (r *ReorderRequest) ToOrderChanges() []domain.OrderChange {
	changes := make([]domain.OrderChange, len(r.Orders))
	for i, o := range r.Orders {
		changes[i] = domain.OrderChange{EntryID: o.EntryID, Order: o.Order}
	}
	return changes
}

// SwapSlotsRequest represents a coordinated two-slot swap.
type SwapSlotsRequest struct {
	EntryA string `json:"entry_a"`
	SlotA  int    `json:"slot_a"`
	EntryB string `json:"entry_b"`
	SlotB  int    `json:"slot_b"`
}

// ToUseCaseInput converts to use case input.
func (r *SwapSlotsRequest) ToUseCaseInput() usecase.SwapSlotsInput {
	return usecase.SwapSlotsInput{
		EntryA: r.EntryA,
		SlotA:  r.SlotA,
		EntryB: r.EntryB,
		SlotB:  r.SlotB,
	}
}

// ToggleAttendanceRequest represents a manual attendance toggle.
type ToggleAttendanceRequest struct {
	AccountID string `json:"account_id"`
	Site      string `json:"site"`
	Identity  string `json:"identity"`
	Date      string `json:"date"`
	Desired   *bool  `json:"desired,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ToggleAttendanceRequest) ToUseCaseInput() (usecase.ToggleInput, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return usecase.ToggleInput{}, err
	}

	return usecase.ToggleInput{
		AccountID: r.AccountID,
		Site:      r.Site,
		Identity:  r.Identity,
		Date:      date,
		Desired:   r.Desired,
	}, nil
}

// BatchStatsRequest represents a batch attendance stats read.
type BatchStatsRequest struct {
	AccountID string      `json:"account_id"`
	Pairs     []StatsPair `json:"pairs"`
}

// StatsPair identifies one (site, identity) in a batch stats request.
type StatsPair struct {
	Site     string `json:"site"`
	Identity string `json:"identity"`
}

// ToUseCasePairs converts to use case pairs.
func (r *BatchStatsRequest) ToUseCasePairs() []usecase.StatsPair {
	pairs := make([]usecase.StatsPair, len(r.Pairs))
	for i, p := range r.Pairs {
		pairs[i] = usecase.StatsPair{Site: p.Site, Identity: p.Identity}
	}
	return pairs
}

// PutPolicyRequest represents an attendance policy write.
type PutPolicyRequest struct {
	AccountID      string `json:"account_id"`
	Site           string `json:"site"`
	Identity       string `json:"identity"`
	AttendanceType string `json:"attendance_type"`
	Rollover       string `json:"rollover"`
}

// ToDomain converts to a domain policy.
func (r *PutPolicyRequest) ToDomain() domain.AttendancePolicy {
	return domain.AttendancePolicy{
		AccountID:      r.AccountID,
		Site:           r.Site,
		Identity:       r.Identity,
		AttendanceType: domain.AttendanceType(r.AttendanceType),
		Rollover:       domain.RolloverPolicy(r.Rollover),
	}
}

func slotsFromPayload(payload []SlotPayload) [domain.SlotCount]domain.Slot {
	var slots [domain.SlotCount]domain.Slot
	for i, p := range payload {
		if i >= domain.SlotCount {
			break
		}
		slots[i] = domain.Slot(p)
	}
	return slots
}
