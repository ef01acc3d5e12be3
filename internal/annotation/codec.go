// Package annotation converts between the compact free-text adjustment
// language stored on ledger entries and its structured form. The text is a
// `/`-delimited token sequence; numeric amounts denote multiples of 10,000
// base currency units.
package annotation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/domain"
)

const (
	// noteMarker prefixes tokens that are kept verbatim as manual notes.
	noteMarker = "수기"
	// sideKeyword opens a side-ledger token.
	sideKeyword = "바때기"
)

// amountScale converts annotation numbers to base currency units.
var amountScale = decimal.NewFromInt(10000)

var (
	sideChipRe = regexp.MustCompile(`^바때기(칩실수|칩팅|배거)([0-9]+(?:\.[0-9]+)?)(먹|못먹)$`)
	sideFlowRe = regexp.MustCompile(`^바때기([0-9]+(?:\.[0-9]+)?)(충|환)$`)
	flowRe     = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)(충|환)`)
	amountRe   = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)`)
)

var chipKinds = []domain.ChipKind{domain.ChipMistake, domain.ChipTing, domain.ChipBagger}

var pointKinds = []domain.PointKind{
	domain.PointAttendance,
	domain.PointPayback,
	domain.PointSettleIn,
	domain.PointRate,
	domain.PointReferral,
	domain.PointFirstTopUp,
	domain.PointEveryTopUp,
	domain.PointSignupBet,
}

// Decode parses annotation text into its structured form. Tokens that match
// no supported class are dropped; garbled legacy data is not reconstructed.
func Decode(text string, knownSites []string) domain.StructuredAnnotation {
	var ann domain.StructuredAnnotation
	if strings.TrimSpace(text) == "" {
		return ann
	}

	matcher := newSiteMatcher(knownSites)

	for _, raw := range strings.Split(text, "/") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(tok, noteMarker); ok {
			if note := strings.TrimSpace(rest); note != "" {
				ann.Notes = append(ann.Notes, note)
			}
			continue
		}

		if m := sideChipRe.FindStringSubmatch(tok); m != nil {
			ann.SideChips = append(ann.SideChips, domain.SideChip{
				Kind:    domain.ChipKind(m[1]),
				Amount:  scaleAmount(m[2]),
				Outcome: domain.ChipOutcome(m[3]),
			})
			continue
		}

		if m := sideFlowRe.FindStringSubmatch(tok); m != nil {
			ann.SideFlows = append(ann.SideFlows, domain.SideFlow{
				Amount:    scaleAmount(m[1]),
				Direction: domain.FlowDirection(m[2]),
			})
			continue
		}

		if chip, ok := decodeSiteChip(tok, matcher); ok {
			ann.SiteChips = append(ann.SiteChips, chip)
			continue
		}

		// Charge/withdraw suffixes feed the cascade no matter what text
		// precedes them; a leading site label is not preserved.
		if ms := flowRe.FindAllStringSubmatch(tok, -1); len(ms) > 0 {
			for _, m := range ms {
				ann.SideFlows = append(ann.SideFlows, domain.SideFlow{
					Amount:    scaleAmount(m[1]),
					Direction: domain.FlowDirection(m[2]),
				})
			}
			continue
		}

		if point, ok := decodeSitePoint(tok, matcher); ok {
			ann.SitePoints = append(ann.SitePoints, point)
		}
	}

	return ann
}

func decodeSiteChip(tok string, matcher *siteMatcher) (domain.SiteChip, bool) {
	// Site-first form: <site><kind><amt><outcome>.
	if site, rest, ok := matcher.match(tok); ok {
		if chip, ok := chipTail(site, rest); ok {
			return chip, true
		}
	}

	// Kind-first form: <kind><site><amt><outcome>.
	for _, kind := range chipKinds {
		rest, ok := strings.CutPrefix(tok, string(kind))
		if !ok {
			continue
		}
		site, rest, ok := matcher.match(rest)
		if !ok {
			continue
		}
		if amt, rest, ok := cutAmount(rest); ok {
			if outcome, ok := chipOutcome(rest); ok {
				return domain.SiteChip{Site: site, Kind: kind, Amount: amt, Outcome: outcome}, true
			}
		}
	}

	return domain.SiteChip{}, false
}

func chipTail(site, rest string) (domain.SiteChip, bool) {
	for _, kind := range chipKinds {
		tail, ok := strings.CutPrefix(rest, string(kind))
		if !ok {
			continue
		}
		amt, tail, ok := cutAmount(tail)
		if !ok {
			continue
		}
		if outcome, ok := chipOutcome(tail); ok {
			return domain.SiteChip{Site: site, Kind: kind, Amount: amt, Outcome: outcome}, true
		}
	}
	return domain.SiteChip{}, false
}

func decodeSitePoint(tok string, matcher *siteMatcher) (domain.SitePoint, bool) {
	site, rest, ok := matcher.match(tok)
	if !ok {
		return domain.SitePoint{}, false
	}

	for _, kind := range pointKinds {
		tail, ok := strings.CutPrefix(rest, string(kind))
		if !ok {
			continue
		}
		if amt, _, ok := cutAmount(tail); ok {
			return domain.SitePoint{Site: site, Kind: kind, Amount: amt}, true
		}
	}

	if amt, _, ok := cutAmount(rest); ok {
		return domain.SitePoint{Site: site, Kind: domain.PointPlain, Amount: amt}, true
	}

	return domain.SitePoint{}, false
}

func chipOutcome(s string) (domain.ChipOutcome, bool) {
	// 못먹 first: 먹 is its suffix.
	if strings.HasPrefix(s, string(domain.ChipLost)) {
		return domain.ChipLost, true
	}
	if strings.HasPrefix(s, string(domain.ChipWon)) {
		return domain.ChipWon, true
	}
	return "", false
}

func cutAmount(s string) (decimal.Decimal, string, bool) {
	m := amountRe.FindString(s)
	if m == "" {
		return decimal.Zero, s, false
	}
	return scaleAmount(m), s[len(m):], true
}

func scaleAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Mul(amountScale)
}

// siteMatcher resolves a token prefix to a registered site name: full names
// first (longest wins), then a 2-rune abbreviation fallback.
type siteMatcher struct {
	full    []string
	abbrevs map[string]string
}

func newSiteMatcher(knownSites []string) *siteMatcher {
	m := &siteMatcher{abbrevs: make(map[string]string, len(knownSites))}

	for _, site := range knownSites {
		site = domain.NormalizeName(site)
		if site == "" {
			continue
		}
		m.full = append(m.full, site)
		if r := []rune(site); len(r) >= 2 {
			abbrev := string(r[:2])
			if _, exists := m.abbrevs[abbrev]; !exists {
				m.abbrevs[abbrev] = site
			}
		}
	}

	sort.SliceStable(m.full, func(i, j int) bool {
		return len([]rune(m.full[i])) > len([]rune(m.full[j]))
	})

	return m
}

// match returns the canonical site name and the remainder of the token.
func (m *siteMatcher) match(tok string) (site, rest string, ok bool) {
	for _, s := range m.full {
		if r, found := strings.CutPrefix(tok, s); found {
			return s, r, true
		}
	}

	r := []rune(tok)
	if len(r) >= 2 {
		if site, found := m.abbrevs[string(r[:2])]; found {
			return site, string(r[2:]), true
		}
	}

	return "", tok, false
}
