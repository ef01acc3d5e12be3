package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansu/dayledger/internal/adapter/http/dto"
	"github.com/hansu/dayledger/internal/domain"
)

func TestCreateEntryRequestToUseCaseInput(t *testing.T) {
	req := dto.CreateEntryRequest{
		AccountID:  "acct-1",
		Date:       "2025-03-14",
		Annotation: "윈윈출석1/10충",
		Slots: []dto.SlotPayload{
			{Identity: "본인", Site: "윈윈", Deposit: decimal.NewFromInt(100000)},
		},
		BaseAmount: decimal.NewFromInt(300000),
	}

	input, err := req.ToUseCaseInput()
	require.NoError(t, err)

	assert.Equal(t, "acct-1", input.AccountID)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), input.Date)
	assert.Equal(t, "윈윈", input.Slots[0].Site)
	assert.True(t, input.Slots[0].Deposit.Equal(decimal.NewFromInt(100000)))
	assert.True(t, input.Slots[1].IsEmpty())
	assert.Nil(t, input.Order)
}

func TestCreateEntryRequestRejectsBadDate(t *testing.T) {
	req := dto.CreateEntryRequest{AccountID: "acct-1", Date: "14-03-2025"}

	_, err := req.ToUseCaseInput()
	require.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCreateEntryRequestIgnoresExtraSlots(t *testing.T) {
	slots := make([]dto.SlotPayload, domain.SlotCount+2)
	for i := range slots {
		slots[i] = dto.SlotPayload{Identity: "본인", Site: "윈윈"}
	}
	req := dto.CreateEntryRequest{AccountID: "acct-1", Date: "2025-03-14", Slots: slots}

	input, err := req.ToUseCaseInput()
	require.NoError(t, err)
	assert.Len(t, input.Slots, domain.SlotCount)
}

func TestEntryFromDomain(t *testing.T) {
	e := &domain.Entry{
		ID:          "e1",
		AccountID:   "acct-1",
		Date:        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Order:       2,
		Revision:    3,
		Annotation:  "10충",
		BaseAmount:  decimal.NewFromInt(300000),
		TotalAmount: decimal.NewFromInt(500000),
	}
	e.Slots[0] = domain.Slot{Identity: "본인", Site: "윈윈", Deposit: decimal.NewFromInt(100000)}
	e.Derived.CarriedAmount = decimal.NewFromInt(400000)
	e.Derived.TotalCharge = decimal.NewFromInt(500000)

	resp := dto.EntryFromDomain(e)

	assert.Equal(t, "e1", resp.ID)
	assert.Equal(t, "2025-03-14", resp.Date)
	assert.Equal(t, 2, resp.Order)
	assert.Len(t, resp.Slots, domain.SlotCount)
	assert.Equal(t, "윈윈", resp.Slots[0].Site)
	assert.True(t, resp.CarriedAmount.Equal(decimal.NewFromInt(400000)))
	assert.True(t, resp.TotalCharge.Equal(decimal.NewFromInt(500000)))
}

func TestReorderRequestToOrderChanges(t *testing.T) {
	req := dto.ReorderRequest{
		AccountID: "acct-1",
		Date:      "2025-03-14",
		Orders: []dto.OrderChange{
			{EntryID: "e2", Order: 0},
			{EntryID: "e1", Order: 1},
		},
	}

	changes := req.ToOrderChanges()

	require.Len(t, changes, 2)
	assert.Equal(t, domain.OrderChange{EntryID: "e2", Order: 0}, changes[0])
	assert.Equal(t, domain.OrderChange{EntryID: "e1", Order: 1}, changes[1])
}

func TestPutPolicyRequestToDomain(t *testing.T) {
	req := dto.PutPolicyRequest{
		AccountID:      "acct-1",
		Site:           "윈윈",
		Identity:       "본인",
		AttendanceType: "manual",
		Rollover:       "included",
	}

	policy := req.ToDomain()

	assert.Equal(t, domain.AttendanceManual, policy.AttendanceType)
	assert.Equal(t, domain.RolloverIncluded, policy.Rollover)
}
