package remodel

import (
	"strings"
	"testing"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

func formWith(items map[string]domain.CoverageValue) domain.RemodelForm {
	return domain.RemodelForm{Items: items}
}

func TestDefaultTaxonomyOrder(t *testing.T) {
	tax := DefaultTaxonomy()
	want := []string{"사망", "장해", "암", "뇌/심장", "수술", "입원", "기타", "실손"}
	if len(tax.Groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(tax.Groups))
	}
	for i, name := range want {
		if tax.Groups[i].Name != name {
			t.Fatalf("group %d = %q, want %q", i, tax.Groups[i].Name, name)
		}
	}
	for _, item := range tax.Groups[7].Items {
		if !IsCategorical(item) {
			t.Fatalf("expected %q to be categorical", item)
		}
	}
}

func TestLoadTaxonomyRejectsDuplicates(t *testing.T) {
	_, err := LoadTaxonomy([]byte("groups:\n  - name: a\n    items: [x]\n  - name: b\n    items: [x]\n"))
	if err == nil {
		t.Fatalf("expected duplicate item error")
	}
}

func TestCompareClassifiesAmountItems(t *testing.T) {
	before := formWith(map[string]domain.CoverageValue{
		"일반사망": domain.AmountValue(0),
		"질병사망": domain.AmountValue(500),
		"일반암":  domain.AmountValue(500),
		"유사암":  domain.AmountValue(500),
	})
	after := formWith(map[string]domain.CoverageValue{
		"일반사망": domain.AmountValue(500),
		"질병사망": domain.AmountValue(0),
		"일반암":  domain.AmountValue(800),
		"유사암":  domain.AmountValue(500),
	})
	result := Compare(DefaultTaxonomy(), before, after)

	byItem := map[string]domain.CoverageChange{}
	for _, c := range result.Changes {
		byItem[c.Item] = c
	}
	if byItem["일반사망"].Kind != domain.ChangeNew {
		t.Fatalf("expected new, got %s", byItem["일반사망"].Kind)
	}
	if byItem["질병사망"].Kind != domain.ChangeRemoved {
		t.Fatalf("expected removed, got %s", byItem["질병사망"].Kind)
	}
	inc := byItem["일반암"]
	if inc.Kind != domain.ChangeIncreased || inc.Delta != 300 {
		t.Fatalf("expected increased by 300, got %s %d", inc.Kind, inc.Delta)
	}
	if _, ok := byItem["유사암"]; ok {
		t.Fatalf("unchanged item must not produce a line")
	}
	if result.Counts.New != 1 || result.Counts.Removed != 1 || result.Counts.Increased != 1 || result.Counts.Total() != 3 {
		t.Fatalf("unexpected counts %+v", result.Counts)
	}
	if inc.Line != "🟦 일반암: 500만원 → 800만원 (보장 강화)" {
		t.Fatalf("unexpected line %q", inc.Line)
	}
	if byItem["일반사망"].Line != "🟢 일반사망: 0만원 → 500만원 (신규 추가)" {
		t.Fatalf("unexpected line %q", byItem["일반사망"].Line)
	}
	if len(result.Groups) != 2 || result.Groups[0].Group != "사망" || result.Groups[1].Group != "암" {
		t.Fatalf("unexpected groups %+v", result.Groups)
	}
}

func TestCompareCategoricalItems(t *testing.T) {
	before := formWith(map[string]domain.CoverageValue{
		"질병입원(실손)": domain.ChoiceValue("예"),
		"질병통원(실손)": domain.ChoiceValue("예"),
	})
	after := formWith(map[string]domain.CoverageValue{
		"질병입원(실손)": domain.ChoiceValue("아니오"),
		"상해입원(실손)": domain.ChoiceValue("예"),
	})
	result := Compare(DefaultTaxonomy(), before, after)
	if result.Counts.FormatChanged != 1 || result.Counts.New != 1 || result.Counts.Removed != 1 {
		t.Fatalf("unexpected counts %+v", result.Counts)
	}
	if result.Counts.Total() != 2 {
		t.Fatalf("format changes must not count toward the total, got %d", result.Counts.Total())
	}
	if !strings.Contains(result.Changes[0].Line, "(형태 변경)") {
		t.Fatalf("expected format change line first, got %q", result.Changes[0].Line)
	}
}

func TestNormalizeForm(t *testing.T) {
	form := NormalizeForm(DefaultTaxonomy(), " 120,000원 ", "20년", "", map[string]string{
		"일반암":      "3,000만",
		"질병입원(실손)": "예",
		"상해통원(실손)": "maybe",
		"없는항목":     "100",
		"유사암":      "",
	})
	if got := form.Items["일반암"].AmountOrZero(); got != 3000 {
		t.Fatalf("expected 3000, got %d", got)
	}
	if form.Items["질병입원(실손)"].Choice != "예" {
		t.Fatalf("expected choice to be kept")
	}
	for _, item := range []string{"상해통원(실손)", "없는항목", "유사암"} {
		if _, ok := form.Items[item]; ok {
			t.Fatalf("expected %q to be dropped", item)
		}
	}
}

func keys(sentences []domain.Sentence) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, s.Key)
	}
	return out
}

func TestSummarySentencesFollowDeltaSigns(t *testing.T) {
	before := domain.RemodelForm{MonthlyPremium: "150,000", PaymentYears: "20", TotalPremium: "36,000,000"}
	after := domain.RemodelForm{MonthlyPremium: "100,000", PaymentYears: "25", TotalPremium: "30,000,000"}
	result := Compare(DefaultTaxonomy(), before, after)

	got := keys(result.Summary)
	want := []string{KeyFeeSaved, KeyTotalSaved, KeyTermExtended, KeyChangeCounts}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("summary keys = %v, want %v", got, want)
	}
	total := result.Summary[1].Vars
	// 6,000,000 / 100,000 = 60 months
	if total["years"] != int64(5) || total["months"] != int64(0) {
		t.Fatalf("unexpected payable duration %v", total)
	}
	if result.Deltas.MonthlyFee != 50000 || result.Deltas.Years != -5 {
		t.Fatalf("unexpected deltas %+v", result.Deltas)
	}
}

func TestSummarySentencesEqualFee(t *testing.T) {
	got := keys(SummarySentences(domain.RemodelDeltas{}, domain.ChangeCounts{}))
	if len(got) != 2 || got[0] != KeyFeeSame || got[1] != KeyChangeCounts {
		t.Fatalf("unexpected keys %v", got)
	}
}

func TestEffectSentencesFeeDirection(t *testing.T) {
	saved := keys(EffectSentences(domain.RemodelDeltas{MonthlyFee: 1000}, domain.ChangeCounts{}))
	if saved[0] != KeyEffectFeeSaved {
		t.Fatalf("a lower after-fee must read as a saving, got %v", saved)
	}
	raised := keys(EffectSentences(domain.RemodelDeltas{MonthlyFee: -1000}, domain.ChangeCounts{New: 1}))
	if raised[0] != KeyEffectFeeForCoverage {
		t.Fatalf("a higher after-fee with gains must read as paid-for coverage, got %v", raised)
	}
	plain := keys(EffectSentences(domain.RemodelDeltas{MonthlyFee: -1000}, domain.ChangeCounts{}))
	if plain[0] == KeyEffectFeeForCoverage || plain[0] == KeyEffectFeeSaved {
		t.Fatalf("no fee sentence expected without gains, got %v", plain)
	}
}

func TestEffectSentencesAlwaysClose(t *testing.T) {
	got := keys(EffectSentences(domain.RemodelDeltas{}, domain.ChangeCounts{}))
	if len(got) != 2 || got[0] != KeyEffectTailored || got[1] != KeyEffectClarity {
		t.Fatalf("unexpected keys %v", got)
	}
	full := EffectSentences(
		domain.RemodelDeltas{MonthlyFee: 1, Total: 1, Years: 1},
		domain.ChangeCounts{New: 1, Increased: 1, Removed: 1},
	)
	if len(full) > effectsLongList {
		t.Fatalf("effects exceed cap: %d", len(full))
	}
}

func TestSplitColumns(t *testing.T) {
	groups := []domain.CoverageGroupLines{
		{Group: "a", Lines: []string{"1", "2"}},
		{Group: "b", Lines: []string{"3"}},
		{Group: "c", Lines: []string{"4"}},
	}
	left, right := SplitColumns(groups)
	if len(left) != 1 || len(right) != 2 {
		t.Fatalf("unexpected split left=%d right=%d", len(left), len(right))
	}
}

func TestSanitizeDropsUnknownAndInvalid(t *testing.T) {
	tax := DefaultTaxonomy()
	amountItem := tax.Groups[0].Items[0]
	var categorical string
	for _, item := range tax.Items() {
		if IsCategorical(item) {
			categorical = item
			break
		}
	}
	form := Sanitize(tax, domain.RemodelForm{
		MonthlyPremium: " 100000 ",
		Items: map[string]domain.CoverageValue{
			amountItem:  domain.AmountValue(500),
			categorical: domain.ChoiceValue("모름"),
			"없는 항목":     domain.AmountValue(1),
		},
	})
	if form.MonthlyPremium != "100000" || len(form.Items) != 1 || form.Items[amountItem].AmountOrZero() != 500 {
		t.Fatalf("unexpected sanitized form %+v", form)
	}
}
