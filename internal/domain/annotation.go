package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PointKind classifies a per-site point adjustment. The empty kind is a plain
// point entry with no keyword ("김구50").
type PointKind string

const (
	PointPlain      PointKind = ""
	PointAttendance PointKind = "출석"
	PointPayback    PointKind = "페이백"
	PointSettleIn   PointKind = "정착"
	PointRate       PointKind = "요율"
	PointReferral   PointKind = "지추"
	PointFirstTopUp PointKind = "첫충"
	PointEveryTopUp PointKind = "매충"
	PointSignupBet  PointKind = "입플"
)

// ChipKind classifies a chip win/loss adjustment.
type ChipKind string

const (
	ChipMistake ChipKind = "칩실수"
	ChipTing    ChipKind = "칩팅"
	ChipBagger  ChipKind = "배거"
)

// ChipOutcome records whether a chip adjustment was collected.
type ChipOutcome string

const (
	ChipWon  ChipOutcome = "먹"
	ChipLost ChipOutcome = "못먹"
)

// FlowDirection is the direction of a side-ledger cash flow.
type FlowDirection string

const (
	FlowCharge   FlowDirection = "충"
	FlowWithdraw FlowDirection = "환"
)

// SitePoint is a point adjustment attributed to a site.
type SitePoint struct {
	Site   string
	Kind   PointKind
	Amount decimal.Decimal
}

// SiteChip is a chip adjustment attributed to a site.
type SiteChip struct {
	Site    string
	Kind    ChipKind
	Amount  decimal.Decimal
	Outcome ChipOutcome
}

// SideFlow is a site-independent cash flow that feeds the ledger cascade.
type SideFlow struct {
	Amount    decimal.Decimal
	Direction FlowDirection
}

// SideChip is a chip adjustment on the side ledger.
type SideChip struct {
	Kind    ChipKind
	Amount  decimal.Decimal
	Outcome ChipOutcome
}

// StructuredAnnotation is the decoded form of an entry's annotation text.
// Amounts are in base currency units.
type StructuredAnnotation struct {
	SitePoints []SitePoint
	SiteChips  []SiteChip
	SideFlows  []SideFlow
	SideChips  []SideChip
	Notes      []string
}

// IsZero reports whether the annotation carries no adjustments at all.
func (a StructuredAnnotation) IsZero() bool {
	return len(a.SitePoints) == 0 && len(a.SiteChips) == 0 &&
		len(a.SideFlows) == 0 && len(a.SideChips) == 0 && len(a.Notes) == 0
}

// ChargeTotal sums all side-ledger charges.
func (a StructuredAnnotation) ChargeTotal() decimal.Decimal {
	return a.flowTotal(FlowCharge)
}

// WithdrawTotal sums all side-ledger withdrawals.
func (a StructuredAnnotation) WithdrawTotal() decimal.Decimal {
	return a.flowTotal(FlowWithdraw)
}

func (a StructuredAnnotation) flowTotal(dir FlowDirection) decimal.Decimal {
	total := decimal.Zero
	for _, f := range a.SideFlows {
		if f.Direction == dir {
			total = total.Add(f.Amount)
		}
	}
	return total
}

// Equal compares two annotations ignoring list order and decimal exponent.
func (a StructuredAnnotation) Equal(b StructuredAnnotation) bool {
	if len(a.SitePoints) != len(b.SitePoints) ||
		len(a.SiteChips) != len(b.SiteChips) ||
		len(a.SideFlows) != len(b.SideFlows) ||
		len(a.SideChips) != len(b.SideChips) ||
		len(a.Notes) != len(b.Notes) {
		return false
	}

	ap, bp := canonicalPoints(a.SitePoints), canonicalPoints(b.SitePoints)
	for i := range ap {
		if ap[i].Site != bp[i].Site || ap[i].Kind != bp[i].Kind || !ap[i].Amount.Equal(bp[i].Amount) {
			return false
		}
	}

	ac, bc := canonicalSiteChips(a.SiteChips), canonicalSiteChips(b.SiteChips)
	for i := range ac {
		if ac[i].Site != bc[i].Site || ac[i].Kind != bc[i].Kind ||
			ac[i].Outcome != bc[i].Outcome || !ac[i].Amount.Equal(bc[i].Amount) {
			return false
		}
	}

	af, bf := canonicalFlows(a.SideFlows), canonicalFlows(b.SideFlows)
	for i := range af {
		if af[i].Direction != bf[i].Direction || !af[i].Amount.Equal(bf[i].Amount) {
			return false
		}
	}

	as, bs := canonicalSideChips(a.SideChips), canonicalSideChips(b.SideChips)
	for i := range as {
		if as[i].Kind != bs[i].Kind || as[i].Outcome != bs[i].Outcome || !as[i].Amount.Equal(bs[i].Amount) {
			return false
		}
	}

	an, bn := append([]string(nil), a.Notes...), append([]string(nil), b.Notes...)
	sort.Strings(an)
	sort.Strings(bn)
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
	}

	return true
}

func canonicalPoints(in []SitePoint) []SitePoint {
	out := append([]SitePoint(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Site != out[j].Site {
			return out[i].Site < out[j].Site
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Amount.LessThan(out[j].Amount)
	})
	return out
}

func canonicalSiteChips(in []SiteChip) []SiteChip {
	out := append([]SiteChip(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Site != out[j].Site {
			return out[i].Site < out[j].Site
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].Outcome != out[j].Outcome {
			return out[i].Outcome < out[j].Outcome
		}
		return out[i].Amount.LessThan(out[j].Amount)
	})
	return out
}

func canonicalFlows(in []SideFlow) []SideFlow {
	out := append([]SideFlow(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Direction != out[j].Direction {
			return out[i].Direction < out[j].Direction
		}
		return out[i].Amount.LessThan(out[j].Amount)
	})
	return out
}

func canonicalSideChips(in []SideChip) []SideChip {
	out := append([]SideChip(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].Outcome != out[j].Outcome {
			return out[i].Outcome < out[j].Outcome
		}
		return out[i].Amount.LessThan(out[j].Amount)
	})
	return out
}
