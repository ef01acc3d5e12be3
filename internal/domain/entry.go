package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlotCount is the fixed number of site slots on a ledger entry.
const SlotCount = 4

// Slot is one site assignment within an entry.
type Slot struct {
	Identity string
	Site     string
	Deposit  decimal.Decimal
	Withdraw decimal.Decimal
	Attended bool
}

// IsEmpty reports whether the slot has no site assignment.
func (s Slot) IsEmpty() bool {
	return s.Site == "" && s.Identity == ""
}

// Derived holds the financial fields computed by the cascade. They are never
// entered directly.
type Derived struct {
	CarriedAmount decimal.Decimal
	PrivateAmount decimal.Decimal
	TotalCharge   decimal.Decimal
	Margin        decimal.Decimal
}

// Entry is one ledger row: up to four site slots plus the carried-forward
// amount inherited from the previous row.
type Entry struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	AccountID   string
	Date        time.Time
	Annotation  string
	Slots       [SlotCount]Slot
	BaseAmount  decimal.Decimal
	TotalAmount decimal.Decimal
	RateAmount  decimal.Decimal
	Derived     Derived
	Order       int
	Revision    int64
}

// DepositTotal sums slot deposits. This is the entry's private amount.
func (e *Entry) DepositTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Slots {
		total = total.Add(s.Deposit)
	}
	return total
}

// WithdrawTotal sums slot withdrawals.
func (e *Entry) WithdrawTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Slots {
		total = total.Add(s.Withdraw)
	}
	return total
}

// Recompute derives an entry's financial fields from its own inputs, the
// previous entry's output and the decoded annotation. The carried amount of
// any entry after the first is a function of the previous entry only; it must
// never be derived from the entry's own total or slots.
func Recompute(e *Entry, prev *Entry, ann StructuredAnnotation) Derived {
	var d Derived

	d.PrivateAmount = e.DepositTotal()

	if prev == nil {
		d.CarriedAmount = e.BaseAmount.Add(ann.ChargeTotal()).Sub(ann.WithdrawTotal())
	} else {
		d.CarriedAmount = prev.TotalAmount.
			Sub(prev.WithdrawTotal()).
			Add(prev.RateAmount).
			Add(ann.ChargeTotal()).
			Sub(ann.WithdrawTotal())
	}

	d.TotalCharge = d.CarriedAmount.Add(d.PrivateAmount)

	if e.TotalAmount.IsZero() {
		d.Margin = decimal.Zero
	} else {
		d.Margin = e.TotalAmount.Sub(d.TotalCharge)
	}

	return d
}
