package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"

	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

const (
	SummarySheet = "요약"
	tableStyle   = "TableStyleMedium9"

	widthPadding  = 10
	excludedLabel = "제외된 계약"

	// Zero-based fallbacks when a header is not found.
	fallbackConvRate    = 5
	fallbackPerformance = 6
	fallbackConvAmount  = 7
	fallbackSummerAmt   = 8
)

type ConventionWriter struct{}

func NewConventionWriter() *ConventionWriter {
	return &ConventionWriter{}
}

type sheetStyles struct {
	center int
	bold   int
	gap    map[string]int
}

// WriteConvention renders the summary sheet followed by one sheet per collector.
func (w *ConventionWriter) WriteConvention(ctx context.Context, view report.ConventionView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	sheetNames := report.NewSheetNameAllocator(SummarySheet)
	tableNames := report.NewTableNameAllocator()

	next, err := writeTable(f, SummarySheet, 1, view.Summary, tableNames.Allocate("Summary"), styles)
	if err != nil {
		return nil, err
	}
	next, err = writeTotals(f, SummarySheet, next+2, view.Summary.ColumnIndex(report.ColCollector, 0)+1, view.Summary, view.Totals, styles)
	if err != nil {
		return nil, err
	}
	if err := writeExcluded(f, SummarySheet, next+2, view.Excluded, tableNames.Allocate("Excluded"), styles); err != nil {
		return nil, err
	}
	if err := autosize(f, SummarySheet); err != nil {
		return nil, err
	}

	for i, group := range view.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := sheetNames.Allocate(group.Label)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		last, err := writeTable(f, name, 1, group.Records, tableNames.Allocate(fmt.Sprintf("Collector_%d", i+1)), styles)
		if err != nil {
			return nil, err
		}
		labelCol := group.Records.ColumnIndex(report.ColConvRate, fallbackConvRate) + 1
		last, err = writeTotals(f, name, last+2, labelCol, group.Records, group.Totals, styles)
		if err != nil {
			return nil, err
		}
		if err := writeExcluded(f, name, last+2, group.Excluded, tableNames.Allocate(fmt.Sprintf("Excluded_%d", i+1)), styles); err != nil {
			return nil, err
		}
		if err := autosize(f, name); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	s := sheetStyles{gap: map[string]int{}}
	var err error
	if s.center, err = f.NewStyle(&excelize.Style{Alignment: center}); err != nil {
		return s, fmt.Errorf("create style: %w", err)
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Alignment: center, Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("create style: %w", err)
	}
	for _, color := range []string{"008000", "FF0000", "000000"} {
		id, err := f.NewStyle(&excelize.Style{Alignment: center, Font: &excelize.Font{Bold: true, Color: color}})
		if err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
		s.gap[color] = id
	}
	return s, nil
}

// writeTable writes headers and rows starting at row top and wraps them in a
// styled table. It returns the last row written.
func writeTable(f *excelize.File, sheet string, top int, t report.Table, tableName string, styles sheetStyles) (int, error) {
	if len(t.Headers) == 0 {
		return top, nil
	}
	rows := append([][]string{t.Headers}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, top+i)
		if err != nil {
			return 0, err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return 0, fmt.Errorf("write row %d on %q: %w", top+i, sheet, err)
		}
	}
	last := top + len(rows) - 1

	topLeft, _ := excelize.CoordinatesToCellName(1, top)
	bottomRight, err := excelize.CoordinatesToCellName(len(t.Headers), last)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, topLeft, bottomRight, styles.center); err != nil {
		return 0, fmt.Errorf("style table on %q: %w", sheet, err)
	}
	// A table needs at least one data row.
	if len(t.Rows) == 0 {
		return last, nil
	}
	stripes := true
	if err := f.AddTable(sheet, &excelize.Table{
		Range:          topLeft + ":" + bottomRight,
		Name:           tableName,
		StyleName:      tableStyle,
		ShowRowStripes: &stripes,
	}); err != nil {
		return 0, fmt.Errorf("add table on %q: %w", sheet, err)
	}
	return last, nil
}

// writeTotals places the sum row under header-matched columns, with the
// label in labelCol, and the gap rows two rows below it. It returns the last
// row written.
func writeTotals(f *excelize.File, sheet string, row, labelCol int, t report.Table, totals report.Totals, styles sheetStyles) (int, error) {
	performance := t.ColumnIndex(report.ColPerformance, fallbackPerformance) + 1
	convAmount := t.ColumnIndex(report.ColConvAmount, fallbackConvAmount) + 1

	cells := []struct {
		col   int
		value string
	}{
		{col: labelCol, value: report.TotalLabel},
		{col: performance, value: totals.Performance},
		{col: convAmount, value: totals.Convention},
	}
	if totals.ShowSummerGap {
		cells = append(cells, struct {
			col   int
			value string
		}{col: t.ColumnIndex(report.ColSummerAmt, fallbackSummerAmt) + 1, value: totals.Summer})
	}
	for _, c := range cells {
		if err := setCell(f, sheet, c.col, row, c.value, styles.bold); err != nil {
			return 0, err
		}
	}

	gaps := []struct {
		label string
		gap   report.Gap
	}{{label: report.ConventionGapLabel, gap: totals.ConventionGap}}
	if totals.ShowSummerGap {
		gaps = append(gaps, struct {
			label string
			gap   report.Gap
		}{label: report.SummerGapLabel, gap: totals.SummerGap})
	}
	last := row
	for i, g := range gaps {
		r := row + 2 + i
		last = r
		if err := setCell(f, sheet, convAmount, r, g.label, styles.center); err != nil {
			return 0, err
		}
		style, ok := styles.gap[g.gap.Color]
		if !ok {
			style = styles.bold
		}
		if err := setCell(f, sheet, performance, r, g.gap.Text, style); err != nil {
			return 0, err
		}
	}
	return last, nil
}

// writeExcluded lists excluded contracts under a bold label. Nothing is
// written when there are none.
func writeExcluded(f *excelize.File, sheet string, row int, t report.Table, tableName string, styles sheetStyles) error {
	if len(t.Rows) == 0 {
		return nil
	}
	if err := setCell(f, sheet, 1, row, excludedLabel, styles.bold); err != nil {
		return err
	}
	_, err := writeTable(f, sheet, row+1, t, tableName, styles)
	return err
}

func setCell(f *excelize.File, sheet string, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set %s on %q: %w", cell, sheet, err)
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

// autosize sets each column to its widest display value plus padding, capped
// at the widest column Excel accepts.
func autosize(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read %q: %w", sheet, err)
	}
	widths := map[int]int{}
	for _, row := range rows {
		for i, v := range row {
			if w := displayWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(w+widthPadding, excelize.MaxColumnWidth))); err != nil {
			return fmt.Errorf("set width %s on %q: %w", col, sheet, err)
		}
	}
	return nil
}

// displayWidth counts East Asian wide characters as two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
