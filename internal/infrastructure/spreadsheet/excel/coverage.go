package excel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/insurance-consult-kit/internal/core/coverage"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

type CoverageCopier struct{}

func NewCoverageCopier() *CoverageCopier {
	return &CoverageCopier{}
}

// CopyCoverage fills the active sheet of template from the consulting workbook.
func (c *CoverageCopier) CopyCoverage(ctx context.Context, source, template io.Reader, rng domain.CopyRange) (domain.CoverageCopyResult, error) {
	tpl, err := excelize.OpenReader(template)
	if err != nil {
		return domain.CoverageCopyResult{}, domain.WrapError(domain.ErrWorkbookOpen, "open print template", err)
	}
	defer tpl.Close()

	src, err := excelize.OpenReader(source)
	if err != nil {
		return domain.CoverageCopyResult{}, domain.WrapError(domain.ErrWorkbookOpen, "open consulting workbook", err)
	}
	defer src.Close()

	for _, sheet := range []string{coverage.SheetContracts, coverage.SheetCoverage} {
		if idx, err := src.GetSheetIndex(sheet); err != nil || idx < 0 {
			return domain.CoverageCopyResult{}, domain.WrapError(domain.ErrInvalidInput, "open consulting workbook", fmt.Errorf("sheet %q not found", sheet))
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.CoverageCopyResult{}, err
	}

	target := &sheetTarget{f: tpl, sheet: tpl.GetSheetName(tpl.GetActiveSheetIndex())}
	prefix, err := coverage.Copy(&workbookSource{f: src}, target, rng)
	if err != nil {
		return domain.CoverageCopyResult{}, fmt.Errorf("copy coverage: %w", err)
	}

	buf, err := tpl.WriteToBuffer()
	if err != nil {
		return domain.CoverageCopyResult{}, fmt.Errorf("write print template: %w", err)
	}
	return domain.CoverageCopyResult{Prefix: prefix, Data: buf.Bytes()}, nil
}

// workbookSource returns typed values: numeric cells as float64, date
// formatted cells as time.Time, others as text and empty cells as nil.
type workbookSource struct {
	f *excelize.File
}

func (s *workbookSource) Cell(sheet string, col, row int) (any, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	raw, err := s.f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", sheet, ref, err)
	}
	if raw == "" {
		return nil, nil
	}
	typ, err := s.f.GetCellType(sheet, ref)
	if err != nil {
		return nil, fmt.Errorf("read type %s!%s: %w", sheet, ref, err)
	}
	if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset || typ == excelize.CellTypeDate {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			if s.isDate(sheet, ref) {
				if t, err := excelize.ExcelDateToTime(n, s.date1904()); err == nil {
					return t, nil
				}
			}
			return n, nil
		}
	}
	return raw, nil
}

// isDate reports whether the cell's number format displays a date.
func (s *workbookSource) isDate(sheet, ref string) bool {
	idx, err := s.f.GetCellStyle(sheet, ref)
	if err != nil || idx == 0 {
		return false
	}
	style, err := s.f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

func (s *workbookSource) date1904() bool {
	props, err := s.f.GetWorkbookProps()
	return err == nil && props.Date1904 != nil && *props.Date1904
}

// Built-in format ids 14-22 and 45-47, plus the CJK date ids.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat looks for year or day tokens outside quoted text and
// bracketed sections.
func isDateFormat(format string) bool {
	var inQuote, inBracket bool
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y', r == 'd':
			return true
		}
	}
	return false
}

type sheetTarget struct {
	f     *excelize.File
	sheet string
}

func (t *sheetTarget) SetCell(col, row int, value any) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := t.f.SetCellValue(t.sheet, ref, value); err != nil {
		return fmt.Errorf("write %s: %w", ref, err)
	}
	return nil
}

// Built-in print form layout.
var printFormLabels = map[string]string{
	"A2":  "구분",
	"A7":  "합계",
	"A8":  "가입일",
	"A9":  "납입기간",
	"A10": "상품명",
	"A12": "보장 내역",
}

// GeneratePrintTemplate builds the default print form when no stored
// template is available.
func GeneratePrintTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "print"); err != nil {
		return nil, fmt.Errorf("rename print sheet: %w", err)
	}
	sheet = "print"

	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	label, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", "고객님의 기존 보험 보장 분석"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", title); err != nil {
		return nil, err
	}
	for cell, text := range printFormLabels {
		if err := f.SetCellValue(sheet, cell, text); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, label); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "AD", 12); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write print template: %w", err)
	}
	return buf.Bytes(), nil
}
