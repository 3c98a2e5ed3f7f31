package report

import (
	"fmt"
	"strconv"

	"github.com/kirillkom/insurance-consult-kit/internal/core/convention"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

const (
	ColDate        = "계약일자"
	ColCarrier     = "보험사"
	ColProduct     = "상품명"
	ColTerm        = "납입기간"
	ColPremium     = "보험료"
	ColConvRate    = "컨벤션율"
	ColSummerRate  = "썸머율"
	ColPerformance = "실적보험료"
	ColConvAmount  = "컨벤션환산금액"
	ColSummerAmt   = "썸머환산금액"
	ColCollector   = "모집인"
	ColMethod      = "납입방법"
	ColReason      = "제외사유"

	TotalLabel         = "총 합계"
	ConventionGapLabel = "컨벤션 기준 대비"
	SummerGapLabel     = "썸머 기준 대비"
)

// Table is a header row plus display rows.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex finds a header by exact text and returns its zero-based index,
// or fallback when the header is absent.
func (t Table) ColumnIndex(header string, fallback int) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return fallback
}

// Totals is the display form of a sum block and its gaps.
type Totals struct {
	Count          int    `json:"count"`
	Performance    string `json:"performance"`
	Convention     string `json:"convention"`
	Summer         string `json:"summer,omitempty"`
	ConventionGap  Gap    `json:"convention_gap"`
	SummerGap      Gap    `json:"summer_gap"`
	ShowSummerGap  bool   `json:"show_summer_gap"`
	CollectorLabel string `json:"collector_label,omitempty"`
}

// GroupView is one collector's sheet.
type GroupView struct {
	Collector string `json:"collector"`
	Label     string `json:"label"`
	Records   Table  `json:"records"`
	Excluded  Table  `json:"excluded"`
	Totals    Totals `json:"totals"`
}

// ConventionView is the complete display projection of one analysis.
type ConventionView struct {
	ShowSummer    bool        `json:"show_summer"`
	Records       Table       `json:"records"`
	Summary       Table       `json:"summary"`
	Excluded      Table       `json:"excluded"`
	ExcludedNotes []string    `json:"excluded_notes"`
	Groups        []GroupView `json:"groups"`
	Totals        Totals      `json:"totals"`
	Warnings      []string    `json:"warnings"`
}

// BuildConventionView formats an analysis for screen and workbook output.
func BuildConventionView(a domain.ConventionAnalysis, showSummer bool) ConventionView {
	view := ConventionView{
		ShowSummer: showSummer,
		Records:    recordsTable(a.Valid, showSummer),
		Summary:    summaryTable(a.Groups, showSummer),
		Excluded:   excludedTable(a.Excluded),
		Totals:     totalsOf(a.Totals, showSummer),
	}
	for _, ex := range a.Excluded {
		view.ExcludedNotes = append(view.ExcludedNotes, fmt.Sprintf("- (%s) → 제외사유: %s", ex.Record.Product, ex.Reason))
	}
	for _, agg := range a.Groups {
		label := CollectorLabel(agg.Collector, convention.UnnamedCollector)
		totals := totalsOf(agg, showSummer)
		totals.CollectorLabel = label
		view.Groups = append(view.Groups, GroupView{
			Collector: agg.Collector,
			Label:     label,
			Records:   recordsTable(convention.FilterByCollector(a.Valid, agg.Collector), showSummer),
			Excluded:  excludedTable(convention.ExcludedByCollector(a.Excluded, agg.Collector)),
			Totals:    totals,
		})
	}

	if n := len(a.Excluded); n > 0 {
		view.Warnings = append(view.Warnings, fmt.Sprintf("제외된 계약 %d건 (일시납 / 연금성·저축성 / 철회·해약·실효 계약)이 계산에서 제외되었습니다.", n))
	}
	if a.InvalidDates > 0 {
		view.Warnings = append(view.Warnings, fmt.Sprintf("%d건의 계약일자가 날짜로 인식되지 않았습니다. 엑셀에서 '2025-07-23'처럼 정확한 형식으로 입력해주세요.", a.InvalidDates))
	}
	return view
}

func recordHeaders(showSummer bool) []string {
	headers := []string{ColDate, ColCarrier, ColProduct, ColTerm, ColPremium, ColConvRate}
	if showSummer {
		headers = append(headers, ColSummerRate)
	}
	headers = append(headers, ColPerformance, ColConvAmount)
	if showSummer {
		headers = append(headers, ColSummerAmt)
	}
	return headers
}

func recordsTable(contracts []domain.EvaluatedContract, showSummer bool) Table {
	t := Table{Headers: recordHeaders(showSummer)}
	for _, ev := range contracts {
		row := []string{
			Date(ev.Date, ev.DateValid, ev.Record.ContractDate),
			ev.Record.Carrier,
			ev.Record.Product,
			Term(ev.Record.PaymentTerm),
			Currency(ev.Record.FirstPremium),
			Percent(ev.Classification.ConventionRate),
		}
		if showSummer {
			row = append(row, Percent(ev.Classification.SummerRate))
		}
		row = append(row, Currency(ev.Amounts.Performance), Currency(ev.Amounts.Convention))
		if showSummer {
			row = append(row, Currency(ev.Amounts.Summer))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func excludedTable(excluded []domain.ExcludedContract) Table {
	t := Table{Headers: []string{ColCollector, "계약일", ColCarrier, ColProduct, ColTerm, ColPremium, ColMethod, ColReason}}
	for _, ex := range excluded {
		t.Rows = append(t.Rows, []string{
			CollectorLabel(ex.Record.Collector, convention.UnnamedCollector),
			ex.Record.ContractDate,
			ex.Record.Carrier,
			ex.Record.Product,
			Term(ex.Record.PaymentTerm),
			Currency(ex.Record.FirstPremium),
			ex.Record.PaymentMethod,
			ex.Reason,
		})
	}
	return t
}

func summaryTable(groups []domain.AggregateRow, showSummer bool) Table {
	headers := []string{ColCollector, "건수", ColPerformance, ColConvAmount}
	if showSummer {
		headers = append(headers, ColSummerAmt)
	}
	for i, tier := range convention.ConventionTiers {
		headers = append(headers, fmt.Sprintf("컨벤션 %d단계(%s)", i+1, Grouped(int64(tier))))
	}
	if showSummer {
		headers = append(headers, "썸머 기준")
	}
	headers = append(headers, "최소 "+strconv.Itoa(convention.MinRecordCount)+"건", "주력 계약", "요건 충족", ConventionGapLabel)
	if showSummer {
		headers = append(headers, SummerGapLabel)
	}

	t := Table{Headers: headers}
	for _, g := range groups {
		row := []string{
			CollectorLabel(g.Collector, convention.UnnamedCollector),
			strconv.Itoa(g.Count),
			Currency(g.PerformanceSum),
			Currency(g.ConventionSum),
		}
		if showSummer {
			row = append(row, Currency(g.SummerSum))
		}
		for _, passed := range g.ConventionTiers {
			row = append(row, Flag(passed))
		}
		if showSummer {
			row = append(row, Flag(g.SummerTargetMet))
		}
		row = append(row,
			Flag(g.MinCountMet),
			Flag(g.FlagshipPresent),
			Flag(g.Compliant),
			ClassifyGap(g.ConventionSum, convention.ConventionTarget()).Text,
		)
		if showSummer {
			row = append(row, ClassifyGap(g.SummerSum, convention.SummerTarget).Text)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func totalsOf(agg domain.AggregateRow, showSummer bool) Totals {
	t := Totals{
		Count:         agg.Count,
		Performance:   Currency(agg.PerformanceSum),
		Convention:    Currency(agg.ConventionSum),
		ConventionGap: ClassifyGap(agg.ConventionSum, convention.ConventionTarget()),
		ShowSummerGap: showSummer,
	}
	if showSummer {
		t.Summer = Currency(agg.SummerSum)
		t.SummerGap = ClassifyGap(agg.SummerSum, convention.SummerTarget)
	}
	return t
}
