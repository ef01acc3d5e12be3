package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Journal is the ordered set of ledger entries for one account and date.
type Journal struct {
	AccountID string
	Date      string
	Entries   []*Entry
}

// OrderChange is one element of a bulk reorder.
type OrderChange struct {
	EntryID string
	Order   int
}

// SortEntries orders entries by their dense order value.
func SortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
}

// IndexOf returns the position of the entry with the given id in the ordered
// slice, or -1.
func IndexOf(entries []*Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// IsRecharge reports whether the slot at slotIndex on the given entry is a
// same-day duplicate: an earlier-ordered entry holds the same (identity, site)
// in the same slot position and the earliest such entry has a positive
// deposit. Recharges never attribute attendance or payback.
func IsRecharge(entries []*Entry, entryID string, slotIndex int) bool {
	idx := IndexOf(entries, entryID)
	if idx < 0 || slotIndex < 0 || slotIndex >= SlotCount {
		return false
	}

	target := entries[idx].Slots[slotIndex]
	if target.IsEmpty() {
		return false
	}

	return EarlierHolder(entries, entryID, target.Identity, target.Site, slotIndex)
}

// EarlierHolder reports whether an entry ordered before entryID holds
// (identity, site) at slotIndex, with the earliest such holder carrying a
// positive deposit. The pair is passed explicitly so the check stays valid
// after the slot on entryID has been cleared or replaced.
func EarlierHolder(entries []*Entry, entryID, identity, site string, slotIndex int) bool {
	if slotIndex < 0 || slotIndex >= SlotCount {
		return false
	}

	idx := IndexOf(entries, entryID)
	if idx <= 0 {
		return false
	}

	for i := 0; i < idx; i++ {
		s := entries[i].Slots[slotIndex]
		if s.Identity == identity && s.Site == site {
			return s.Deposit.IsPositive()
		}
	}

	return false
}

// AttributingEntry returns the id of the earliest-ordered entry whose slot at
// slotIndex holds (identity, site) with a positive deposit, or "" if none.
// That entry is the one that owns the attendance log for the day.
func AttributingEntry(entries []*Entry, identity, site string, slotIndex int) string {
	if slotIndex < 0 || slotIndex >= SlotCount {
		return ""
	}
	for _, e := range entries {
		s := e.Slots[slotIndex]
		if s.Identity == identity && s.Site == site && s.Deposit.IsPositive() {
			return e.ID
		}
	}
	return ""
}

// MarginSum totals margin plus rate over a cascaded journal. The entries must
// already carry derived values from a strict left-to-right recompute.
func MarginSum(entries []*Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Derived.Margin).Add(e.RateAmount)
	}
	return total
}
