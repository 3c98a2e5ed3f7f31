package remodel

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

const (
	amountUnit = "만원"

	markerNew       = "🟢"
	markerRemoved   = "🔴"
	markerIncreased = "🟦"
	markerDecreased = "🟨"
	markerFormat    = "🟣"
)

// ParseAmount keeps only the digits of text. It reports false when none remain.
func ParseAmount(text string) (int64, bool) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeForm builds a form from free-text item inputs. Amount items are
// reduced to their digits; categorical items keep only a valid choice.
// Items outside the taxonomy are dropped.
func NormalizeForm(t Taxonomy, monthly, years, total string, raw map[string]string) domain.RemodelForm {
	form := domain.RemodelForm{
		MonthlyPremium: strings.TrimSpace(monthly),
		PaymentYears:   strings.TrimSpace(years),
		TotalPremium:   strings.TrimSpace(total),
		Items:          map[string]domain.CoverageValue{},
	}
	for item, text := range raw {
		if !t.Contains(item) {
			continue
		}
		text = strings.TrimSpace(text)
		if IsCategorical(item) {
			if slices.Contains(Choices, text) && text != "" {
				form.Items[item] = domain.ChoiceValue(text)
			}
			continue
		}
		if n, ok := ParseAmount(text); ok {
			form.Items[item] = domain.AmountValue(n)
		}
	}
	return form
}

// Sanitize applies the NormalizeForm rules to an already structured form.
func Sanitize(t Taxonomy, f domain.RemodelForm) domain.RemodelForm {
	out := domain.RemodelForm{
		MonthlyPremium: strings.TrimSpace(f.MonthlyPremium),
		PaymentYears:   strings.TrimSpace(f.PaymentYears),
		TotalPremium:   strings.TrimSpace(f.TotalPremium),
		Items:          map[string]domain.CoverageValue{},
	}
	for item, v := range f.Items {
		if !t.Contains(item) {
			continue
		}
		if IsCategorical(item) {
			if c := strings.TrimSpace(v.Choice); c != "" && slices.Contains(Choices, c) {
				out.Items[item] = domain.ChoiceValue(c)
			}
			continue
		}
		if v.Amount != nil && *v.Amount >= 0 {
			out.Items[item] = domain.AmountValue(*v.Amount)
		}
	}
	return out
}

// Compare classifies every taxonomy item and narrates the changed ones.
func Compare(t Taxonomy, before, after domain.RemodelForm) domain.RemodelResult {
	var result domain.RemodelResult
	for _, g := range t.Groups {
		var lines []string
		for _, item := range g.Items {
			change := classify(g.Name, item, before.Items[item], after.Items[item])
			if change.Kind == domain.ChangeUnchanged {
				continue
			}
			result.Changes = append(result.Changes, change)
			lines = append(lines, change.Line)
			tally(&result.Counts, change.Kind)
		}
		if len(lines) > 0 {
			result.Groups = append(result.Groups, domain.CoverageGroupLines{Group: g.Name, Lines: lines})
		}
	}
	result.Deltas = deltasOf(before, after)
	result.Summary = SummarySentences(result.Deltas, result.Counts)
	result.Effects = EffectSentences(result.Deltas, result.Counts)
	return result
}

func classify(group, item string, before, after domain.CoverageValue) domain.CoverageChange {
	change := domain.CoverageChange{Group: group, Item: item, Before: before, After: after, Kind: domain.ChangeUnchanged}
	if IsCategorical(item) {
		b, a := before.Choice, after.Choice
		switch {
		case b == a:
		case b == "":
			change.Kind = domain.ChangeNew
			change.Line = fmt.Sprintf("%s %s: %s (신규 추가)", markerNew, item, a)
		case a == "":
			change.Kind = domain.ChangeRemoved
			change.Line = fmt.Sprintf("%s %s: 삭제", markerRemoved, item)
		default:
			change.Kind = domain.ChangeFormatChanged
			change.Line = fmt.Sprintf("%s %s: %s → %s (형태 변경)", markerFormat, item, b, a)
		}
		return change
	}

	b, a := before.AmountOrZero(), after.AmountOrZero()
	change.Delta = a - b
	switch {
	case b <= 0 && a <= 0:
		change.Delta = 0
	case b <= 0:
		change.Kind = domain.ChangeNew
		change.Line = fmt.Sprintf("%s %s: 0%s → %s%s (신규 추가)", markerNew, item, amountUnit, report.Grouped(a), amountUnit)
	case a <= 0:
		change.Kind = domain.ChangeRemoved
		change.Line = fmt.Sprintf("%s %s: %s%s → 0%s (삭제)", markerRemoved, item, report.Grouped(b), amountUnit, amountUnit)
	case a > b:
		change.Kind = domain.ChangeIncreased
		change.Line = fmt.Sprintf("%s %s: %s%s → %s%s (보장 강화)", markerIncreased, item, report.Grouped(b), amountUnit, report.Grouped(a), amountUnit)
	case a < b:
		change.Kind = domain.ChangeDecreased
		change.Line = fmt.Sprintf("%s %s: %s%s → %s%s (보장 축소)", markerDecreased, item, report.Grouped(b), amountUnit, report.Grouped(a), amountUnit)
	}
	return change
}

func tally(c *domain.ChangeCounts, kind domain.ChangeKind) {
	switch kind {
	case domain.ChangeNew:
		c.New++
	case domain.ChangeRemoved:
		c.Removed++
	case domain.ChangeIncreased:
		c.Increased++
	case domain.ChangeDecreased:
		c.Decreased++
	case domain.ChangeFormatChanged:
		c.FormatChanged++
	}
}

// Deltas are before minus after; a positive fee delta is a saving.
func deltasOf(before, after domain.RemodelForm) domain.RemodelDeltas {
	amount := func(s string) int64 {
		n, _ := ParseAmount(s)
		return n
	}
	afterFee := amount(after.MonthlyPremium)
	return domain.RemodelDeltas{
		MonthlyFee: amount(before.MonthlyPremium) - afterFee,
		Total:      amount(before.TotalPremium) - amount(after.TotalPremium),
		Years:      amount(before.PaymentYears) - amount(after.PaymentYears),
		AfterFee:   afterFee,
	}
}

// SplitColumns balances groups across two display columns by line count.
func SplitColumns(groups []domain.CoverageGroupLines) (left, right []domain.CoverageGroupLines) {
	total := 0
	for _, g := range groups {
		total += len(g.Lines)
	}
	cutoff := (total + 1) / 2
	filled := 0
	for _, g := range groups {
		if filled < cutoff {
			left = append(left, g)
			filled += len(g.Lines)
			continue
		}
		right = append(right, g)
	}
	return left, right
}
