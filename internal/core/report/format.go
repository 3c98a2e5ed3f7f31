// Package report projects numeric analysis results into display strings.
// Numeric fields are never mutated; every function here returns new text.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CurrencyUnit   = "원"
	NotANumber     = "N/A"
	dateLayout     = "2006-01-02"
	gapUndecidable = "계산 불가"
)

var printer = message.NewPrinter(language.Korean)

// RoundCurrency rounds to the nearest whole unit, ties to even.
func RoundCurrency(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return decimal.NewFromFloat(v).RoundBank(0).IntPart(), true
}

// Grouped renders an integer with thousands separators.
func Grouped(n int64) string {
	return printer.Sprintf("%d", n)
}

// Currency renders "1,234 원"; NaN renders as "N/A 원".
func Currency(v float64) string {
	n, ok := RoundCurrency(v)
	if !ok {
		return NotANumber + " " + CurrencyUnit
	}
	return Grouped(n) + " " + CurrencyUnit
}

func Percent(rate int) string {
	return strconv.Itoa(rate) + " %"
}

// PercentFloat renders a share rate the way it was entered.
func PercentFloat(v float64) string {
	if math.IsNaN(v) {
		return NotANumber + " %"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " %"
}

func Term(years int) string {
	return strconv.Itoa(years) + "년"
}

// Date renders a parsed date, or passes the raw value through when parsing failed.
func Date(t time.Time, valid bool, raw string) string {
	if !valid {
		return raw
	}
	return t.Format(dateLayout)
}

type GapKind string

const (
	GapSurplus   GapKind = "surplus"
	GapShortfall GapKind = "shortfall"
	GapMet       GapKind = "met"
	GapUnknown   GapKind = "unknown"
)

// Gap is the signed distance between an achieved sum and a target.
type Gap struct {
	Kind   GapKind         `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Text   string          `json:"text"`
	Color  string          `json:"color"`
}

// ClassifyGap compares sum against target with exact equality.
func ClassifyGap(sum, target float64) Gap {
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return Gap{Kind: GapUnknown, Text: gapUndecidable, Color: "000000"}
	}
	diff := decimal.NewFromFloat(sum).Sub(decimal.NewFromFloat(target))
	switch diff.Sign() {
	case 1:
		return Gap{Kind: GapSurplus, Amount: diff, Text: fmt.Sprintf("+%s %s 초과", Grouped(diff.RoundBank(0).IntPart()), CurrencyUnit), Color: "008000"}
	case -1:
		return Gap{Kind: GapShortfall, Amount: diff, Text: fmt.Sprintf("%s %s 부족", Grouped(diff.RoundBank(0).IntPart()), CurrencyUnit), Color: "FF0000"}
	default:
		return Gap{Kind: GapMet, Amount: diff, Text: "기준 달성", Color: "000000"}
	}
}

// Flag renders a pass/fail marker for threshold checks.
func Flag(ok bool) string {
	if ok {
		return "O"
	}
	return "X"
}

// CollectorLabel names the empty-collector group.
func CollectorLabel(name, unnamed string) string {
	if strings.TrimSpace(name) == "" {
		return unnamed
	}
	return name
}
