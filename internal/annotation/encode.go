package annotation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/domain"
)

// Encode renders a structured annotation back to its compact text form:
// per-site entries in site first-appearance order, then side-ledger charges,
// withdrawals and chip adjustments, then manual notes. Zero amounts are
// omitted. Decode(Encode(a)) is Equal to a for any a built from non-zero
// supported adjustments.
func Encode(ann domain.StructuredAnnotation) string {
	var tokens []string

	for _, site := range siteOrder(ann) {
		for _, p := range ann.SitePoints {
			if p.Site != site || !p.Amount.IsPositive() {
				continue
			}
			tokens = append(tokens, p.Site+string(p.Kind)+amountText(p.Amount))
		}
		for _, c := range ann.SiteChips {
			if c.Site != site || !c.Amount.IsPositive() {
				continue
			}
			tokens = append(tokens, c.Site+string(c.Kind)+amountText(c.Amount)+string(c.Outcome))
		}
	}

	for _, dir := range []domain.FlowDirection{domain.FlowCharge, domain.FlowWithdraw} {
		for _, f := range ann.SideFlows {
			if f.Direction != dir || !f.Amount.IsPositive() {
				continue
			}
			tokens = append(tokens, amountText(f.Amount)+string(f.Direction))
		}
	}

	for _, c := range ann.SideChips {
		if !c.Amount.IsPositive() {
			continue
		}
		tokens = append(tokens, sideKeyword+string(c.Kind)+amountText(c.Amount)+string(c.Outcome))
	}

	for _, note := range ann.Notes {
		if note == "" {
			continue
		}
		tokens = append(tokens, noteMarker+note)
	}

	return strings.Join(tokens, "/")
}

func siteOrder(ann domain.StructuredAnnotation) []string {
	seen := make(map[string]struct{})
	var order []string
	add := func(site string) {
		if site == "" {
			return
		}
		if _, ok := seen[site]; ok {
			return
		}
		seen[site] = struct{}{}
		order = append(order, site)
	}

	for _, p := range ann.SitePoints {
		add(p.Site)
	}
	for _, c := range ann.SiteChips {
		add(c.Site)
	}

	return order
}

func amountText(d decimal.Decimal) string {
	return d.Div(amountScale).String()
}
