package annotation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/domain"
)

var testSites = []string{"윈윈", "벳백", "놀이터판다"}

func amt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestDecodeSitePoints(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.SitePoint
	}{
		{
			name: "typed attendance point",
			text: "윈윈출석1",
			want: domain.SitePoint{Site: "윈윈", Kind: domain.PointAttendance, Amount: amt(10000)},
		},
		{
			name: "typed payback point",
			text: "벳백페이백2.5",
			want: domain.SitePoint{Site: "벳백", Kind: domain.PointPayback, Amount: amt(25000)},
		},
		{
			name: "plain point without kind",
			text: "윈윈0.5",
			want: domain.SitePoint{Site: "윈윈", Kind: domain.PointPlain, Amount: amt(5000)},
		},
		{
			name: "abbreviated site resolves to full name",
			text: "놀이1",
			want: domain.SitePoint{Site: "놀이터판다", Kind: domain.PointPlain, Amount: amt(10000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := Decode(tt.text, testSites)
			if len(ann.SitePoints) != 1 {
				t.Fatalf("expected 1 site point, got %d", len(ann.SitePoints))
			}
			got := ann.SitePoints[0]
			if got.Site != tt.want.Site || got.Kind != tt.want.Kind || !got.Amount.Equal(tt.want.Amount) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeSiteChips(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.SiteChip
	}{
		{
			name: "site-first chip won",
			text: "윈윈칩팅2먹",
			want: domain.SiteChip{Site: "윈윈", Kind: domain.ChipTing, Amount: amt(20000), Outcome: domain.ChipWon},
		},
		{
			name: "site-first chip lost",
			text: "윈윈칩실수1못먹",
			want: domain.SiteChip{Site: "윈윈", Kind: domain.ChipMistake, Amount: amt(10000), Outcome: domain.ChipLost},
		},
		{
			name: "kind-first chip",
			text: "칩팅벳백3먹",
			want: domain.SiteChip{Site: "벳백", Kind: domain.ChipTing, Amount: amt(30000), Outcome: domain.ChipWon},
		},
		{
			name: "bagger chip",
			text: "윈윈배거0.5못먹",
			want: domain.SiteChip{Site: "윈윈", Kind: domain.ChipBagger, Amount: amt(5000), Outcome: domain.ChipLost},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := Decode(tt.text, testSites)
			if len(ann.SiteChips) != 1 {
				t.Fatalf("expected 1 site chip, got %d", len(ann.SiteChips))
			}
			got := ann.SiteChips[0]
			if got.Site != tt.want.Site || got.Kind != tt.want.Kind ||
				got.Outcome != tt.want.Outcome || !got.Amount.Equal(tt.want.Amount) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeSideTokens(t *testing.T) {
	ann := Decode("바때기5충/바때기2환/바때기칩실수1먹", testSites)

	if len(ann.SideFlows) != 2 {
		t.Fatalf("expected 2 side flows, got %d", len(ann.SideFlows))
	}
	if ann.SideFlows[0].Direction != domain.FlowCharge || !ann.SideFlows[0].Amount.Equal(amt(50000)) {
		t.Errorf("unexpected charge flow %+v", ann.SideFlows[0])
	}
	if ann.SideFlows[1].Direction != domain.FlowWithdraw || !ann.SideFlows[1].Amount.Equal(amt(20000)) {
		t.Errorf("unexpected withdraw flow %+v", ann.SideFlows[1])
	}

	if len(ann.SideChips) != 1 {
		t.Fatalf("expected 1 side chip, got %d", len(ann.SideChips))
	}
	chip := ann.SideChips[0]
	if chip.Kind != domain.ChipMistake || chip.Outcome != domain.ChipWon || !chip.Amount.Equal(amt(10000)) {
		t.Errorf("unexpected side chip %+v", chip)
	}
}

func TestDecodeFlowSuffixIgnoresSiteLabel(t *testing.T) {
	// A charge suffix feeds the cascade even when a site label precedes it;
	// the label is not preserved.
	ann := Decode("윈윈10충", testSites)

	if len(ann.SitePoints) != 0 {
		t.Fatalf("expected no site points, got %+v", ann.SitePoints)
	}
	if len(ann.SideFlows) != 1 {
		t.Fatalf("expected 1 side flow, got %d", len(ann.SideFlows))
	}
	flow := ann.SideFlows[0]
	if flow.Direction != domain.FlowCharge || !flow.Amount.Equal(amt(100000)) {
		t.Errorf("unexpected flow %+v", flow)
	}

	if !ann.ChargeTotal().Equal(amt(100000)) {
		t.Errorf("expected charge total 100000, got %s", ann.ChargeTotal())
	}
}

func TestDecodeManualNotes(t *testing.T) {
	ann := Decode("수기 계좌 변경 요청/윈윈1", testSites)

	if len(ann.Notes) != 1 || ann.Notes[0] != "계좌 변경 요청" {
		t.Fatalf("unexpected notes %+v", ann.Notes)
	}
	if len(ann.SitePoints) != 1 {
		t.Fatalf("expected 1 site point, got %d", len(ann.SitePoints))
	}
}

func TestDecodeDropsUnknownTokens(t *testing.T) {
	ann := Decode("알수없는사이트1/의미없는글자", testSites)

	if !ann.IsZero() {
		t.Fatalf("expected empty annotation, got %+v", ann)
	}
}

func TestDecodeEmptyText(t *testing.T) {
	if ann := Decode("", testSites); !ann.IsZero() {
		t.Fatalf("expected empty annotation, got %+v", ann)
	}
	if ann := Decode("  ", testSites); !ann.IsZero() {
		t.Fatalf("expected empty annotation for whitespace, got %+v", ann)
	}
}

func TestEncode(t *testing.T) {
	ann := domain.StructuredAnnotation{
		SitePoints: []domain.SitePoint{
			{Site: "윈윈", Kind: domain.PointAttendance, Amount: amt(10000)},
			{Site: "벳백", Kind: domain.PointPlain, Amount: amt(5000)},
		},
		SiteChips: []domain.SiteChip{
			{Site: "윈윈", Kind: domain.ChipTing, Amount: amt(20000), Outcome: domain.ChipWon},
		},
		SideFlows: []domain.SideFlow{
			{Amount: amt(50000), Direction: domain.FlowCharge},
			{Amount: amt(20000), Direction: domain.FlowWithdraw},
		},
		SideChips: []domain.SideChip{
			{Kind: domain.ChipMistake, Amount: amt(10000), Outcome: domain.ChipLost},
		},
		Notes: []string{"계좌 변경 요청"},
	}

	got := Encode(ann)
	want := "윈윈출석1/윈윈칩팅2먹/벳백0.5/5충/2환/바때기칩실수1못먹/수기계좌 변경 요청"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeSkipsZeroAmounts(t *testing.T) {
	ann := domain.StructuredAnnotation{
		SitePoints: []domain.SitePoint{
			{Site: "윈윈", Kind: domain.PointPlain, Amount: decimal.Zero},
		},
	}

	if got := Encode(ann); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"윈윈출석1",
		"윈윈칩팅2먹/벳백페이백1.5",
		"바때기5충/바때기칩실수1못먹",
		"윈윈1/수기메모",
	}

	for _, text := range texts {
		decoded := Decode(text, testSites)
		again := Decode(Encode(decoded), testSites)
		if !decoded.Equal(again) {
			t.Errorf("round trip mismatch for %q: %+v vs %+v", text, decoded, again)
		}
	}
}
