package domain

import (
	"testing"
)

func entryWithSlot(id string, order, slotIndex int, identity, site string, deposit int64) *Entry {
	e := &Entry{ID: id, Order: order}
	e.Slots[slotIndex] = Slot{Identity: identity, Site: site, Deposit: d(deposit)}
	return e
}

func TestIsRecharge(t *testing.T) {
	entries := []*Entry{
		entryWithSlot("a", 0, 0, "본인", "윈윈", 100000),
		entryWithSlot("b", 1, 0, "본인", "윈윈", 50000),
	}

	if !IsRecharge(entries, "b", 0) {
		t.Error("expected second same-pair deposit to be a recharge")
	}
	if IsRecharge(entries, "a", 0) {
		t.Error("expected first deposit not to be a recharge")
	}
}

func TestIsRechargeDifferentSlotPosition(t *testing.T) {
	entries := []*Entry{
		entryWithSlot("a", 0, 0, "본인", "윈윈", 100000),
		entryWithSlot("b", 1, 1, "본인", "윈윈", 50000),
	}

	// The same pair in a different slot position is not a recharge.
	if IsRecharge(entries, "b", 1) {
		t.Error("expected deposit in a different slot position not to be a recharge")
	}
}

func TestIsRechargeEarliestMustHavePositiveDeposit(t *testing.T) {
	entries := []*Entry{
		entryWithSlot("a", 0, 0, "본인", "윈윈", 0),
		entryWithSlot("b", 1, 0, "본인", "윈윈", 50000),
	}

	if IsRecharge(entries, "b", 0) {
		t.Error("expected no recharge when the earliest deposit is zero")
	}
}

func TestIsRechargeInvalidSlotIndex(t *testing.T) {
	entries := []*Entry{
		entryWithSlot("a", 0, 0, "본인", "윈윈", 100000),
	}

	if IsRecharge(entries, "a", -1) || IsRecharge(entries, "a", SlotCount) {
		t.Error("expected out-of-range slot index not to be a recharge")
	}
}

func TestEarlierHolderSurvivesClearedSlot(t *testing.T) {
	entries := []*Entry{
		entryWithSlot("a", 0, 0, "본인", "윈윈", 100000),
		entryWithSlot("b", 1, 0, "본인", "윈윈", 0),
	}

	// The pair is checked explicitly, so b still counts as a duplicate even
	// though its own deposit has been cleared.
	if !EarlierHolder(entries, "b", "본인", "윈윈", 0) {
		t.Error("expected earlier holder for cleared duplicate")
	}
	if EarlierHolder(entries, "a", "본인", "윈윈", 0) {
		t.Error("expected no earlier holder for the first entry")
	}
}

func TestAttributingEntry(t *testing.T) {
	entries := []*Entry{
		entryWithSlot("a", 0, 0, "본인", "윈윈", 0),
		entryWithSlot("b", 1, 0, "본인", "윈윈", 50000),
		entryWithSlot("c", 2, 0, "본인", "윈윈", 30000),
	}

	if got := AttributingEntry(entries, "본인", "윈윈", 0); got != "b" {
		t.Errorf("expected entry b to attribute attendance, got %q", got)
	}
	if got := AttributingEntry(entries, "형님", "윈윈", 0); got != "" {
		t.Errorf("expected no attributing entry, got %q", got)
	}
}

func TestSortEntries(t *testing.T) {
	entries := []*Entry{
		{ID: "c", Order: 2},
		{ID: "a", Order: 0},
		{ID: "b", Order: 1},
	}

	SortEntries(entries)

	for i, want := range []string{"a", "b", "c"} {
		if entries[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, entries[i].ID)
		}
	}
}

func TestMarginSum(t *testing.T) {
	a := &Entry{RateAmount: d(10000)}
	a.Derived.Margin = d(200000)
	b := &Entry{RateAmount: d(0)}
	b.Derived.Margin = d(-50000)

	total := MarginSum([]*Entry{a, b})

	if !total.Equal(d(160000)) {
		t.Errorf("expected 160000, got %s", total)
	}
}
