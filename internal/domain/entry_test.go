package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestRecomputeFirstEntry(t *testing.T) {
	entry := &Entry{BaseAmount: d(0)}
	ann := StructuredAnnotation{
		SideFlows: []SideFlow{{Amount: d(100000), Direction: FlowCharge}},
	}

	derived := Recompute(entry, nil, ann)

	if !derived.CarriedAmount.Equal(d(100000)) {
		t.Errorf("expected carried 100000, got %s", derived.CarriedAmount)
	}
	if !derived.PrivateAmount.Equal(d(0)) {
		t.Errorf("expected private 0, got %s", derived.PrivateAmount)
	}
	if !derived.TotalCharge.Equal(d(100000)) {
		t.Errorf("expected total charge 100000, got %s", derived.TotalCharge)
	}
}

func TestRecomputeFirstEntryWithBaseAndWithdraw(t *testing.T) {
	entry := &Entry{BaseAmount: d(300000)}
	ann := StructuredAnnotation{
		SideFlows: []SideFlow{
			{Amount: d(100000), Direction: FlowCharge},
			{Amount: d(50000), Direction: FlowWithdraw},
		},
	}

	derived := Recompute(entry, nil, ann)

	if !derived.CarriedAmount.Equal(d(350000)) {
		t.Errorf("expected carried 350000, got %s", derived.CarriedAmount)
	}
}

func TestRecomputeChainedEntry(t *testing.T) {
	prev := &Entry{TotalAmount: d(500000), RateAmount: d(0)}
	prev.Slots[0] = Slot{Identity: "본인", Site: "윈윈", Withdraw: d(50000)}

	entry := &Entry{}

	derived := Recompute(entry, prev, StructuredAnnotation{})

	// 500000 - 50000 + 0 = 450000
	if !derived.CarriedAmount.Equal(d(450000)) {
		t.Errorf("expected carried 450000, got %s", derived.CarriedAmount)
	}
}

func TestRecomputeChainedEntryUsesPrevRate(t *testing.T) {
	prev := &Entry{TotalAmount: d(500000), RateAmount: d(10000)}

	entry := &Entry{}
	ann := StructuredAnnotation{
		SideFlows: []SideFlow{{Amount: d(20000), Direction: FlowWithdraw}},
	}

	derived := Recompute(entry, prev, ann)

	// 500000 + 10000 - 20000 = 490000
	if !derived.CarriedAmount.Equal(d(490000)) {
		t.Errorf("expected carried 490000, got %s", derived.CarriedAmount)
	}
}

func TestRecomputePrivateAmountSumsDeposits(t *testing.T) {
	entry := &Entry{}
	entry.Slots[0] = Slot{Identity: "본인", Site: "윈윈", Deposit: d(100000)}
	entry.Slots[2] = Slot{Identity: "형님", Site: "벳백", Deposit: d(200000)}

	derived := Recompute(entry, nil, StructuredAnnotation{})

	if !derived.PrivateAmount.Equal(d(300000)) {
		t.Errorf("expected private 300000, got %s", derived.PrivateAmount)
	}
	if !derived.TotalCharge.Equal(d(300000)) {
		t.Errorf("expected total charge 300000, got %s", derived.TotalCharge)
	}
}

func TestRecomputeMarginZeroWhenTotalUnset(t *testing.T) {
	entry := &Entry{}
	entry.Slots[0] = Slot{Identity: "본인", Site: "윈윈", Deposit: d(100000)}

	derived := Recompute(entry, nil, StructuredAnnotation{})

	if !derived.Margin.IsZero() {
		t.Errorf("expected margin 0 when total unset, got %s", derived.Margin)
	}
}

func TestRecomputeMargin(t *testing.T) {
	entry := &Entry{TotalAmount: d(700000)}
	entry.Slots[0] = Slot{Identity: "본인", Site: "윈윈", Deposit: d(100000)}
	entry.BaseAmount = d(400000)

	derived := Recompute(entry, nil, StructuredAnnotation{})

	// 700000 - (400000 + 100000) = 200000
	if !derived.Margin.Equal(d(200000)) {
		t.Errorf("expected margin 200000, got %s", derived.Margin)
	}
}
