// Package coverage maps a consulting workbook onto the customer print form.
package coverage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

const (
	SheetContracts = "계약사항"
	SheetCoverage  = "보장사항"

	defaultCustomer = "고객"
	prefixRunes     = 3

	contractFirstRow = 9
	contractRows     = 27
	contractFirstCol = 4 // D

	coverageFirstCol = 6  // F
	coverageLastCol  = 29 // AC
	coverageColShift = 2
	coverageRowShift = 3
	coverageTotalRow = 7

	rangeMin = 1
	rangeMax = 100
)

// DefaultRange is the coverage block copied into the built-in form.
var DefaultRange = domain.CopyRange{Start: 9, End: 45}

// Source reads cell values from the consulting workbook. Missing cells yield nil.
type Source interface {
	Cell(sheet string, col, row int) (any, error)
}

// Target writes into the active sheet of the print form. A nil value clears the cell.
type Target interface {
	SetCell(col, row int, value any) error
}

// ValidateRange enforces 1..100 and end strictly after start.
func ValidateRange(r domain.CopyRange) error {
	if r.Start < rangeMin || r.End > rangeMax || r.Start > rangeMax || r.End < rangeMin {
		return domain.WrapError(domain.ErrInvalidInput, "validate copy range", fmt.Errorf("rows must be within %d..%d", rangeMin, rangeMax))
	}
	if r.End <= r.Start {
		return domain.WrapError(domain.ErrInvalidInput, "validate copy range", fmt.Errorf("end row %d must be greater than start row %d", r.End, r.Start))
	}
	return nil
}

// Copy transfers contract and coverage cells and writes the title. It
// returns the customer name prefix used in the title and file name.
func Copy(src Source, dst Target, rng domain.CopyRange) (string, error) {
	contractCols := []struct {
		source string
		row    int
	}{
		{source: "J", row: 10},
		{source: "K", row: 8},
		{source: "L", row: 9},
	}
	for _, c := range contractCols {
		col := columnIndex(c.source)
		for idx := 0; idx < contractRows; idx++ {
			v, err := src.Cell(SheetContracts, col, contractFirstRow+idx)
			if err != nil {
				return "", err
			}
			if err := dst.SetCell(contractFirstCol+idx, c.row, v); err != nil {
				return "", err
			}
		}
	}

	for col := coverageFirstCol; col <= coverageLastCol; col++ {
		v, err := src.Cell(SheetCoverage, col, coverageTotalRow)
		if err != nil {
			return "", err
		}
		if v == nil {
			continue
		}
		if err := dst.SetCell(col-coverageColShift, coverageTotalRow, DigitsOnly(v)); err != nil {
			return "", err
		}
	}

	if err := copyBlock(src, dst, 2, 6, 0); err != nil {
		return "", err
	}
	if err := copyBlock(src, dst, rng.Start, rng.End, coverageRowShift); err != nil {
		return "", err
	}

	name, err := src.Cell(SheetContracts, 2, 2)
	if err != nil {
		return "", err
	}
	detail, err := src.Cell(SheetContracts, 4, 2)
	if err != nil {
		return "", err
	}
	prefix := NamePrefix(name)
	if err := dst.SetCell(1, 1, Title(prefix, CellText(detail))); err != nil {
		return "", err
	}
	return prefix, nil
}

func copyBlock(src Source, dst Target, fromRow, toRow, rowShift int) error {
	for row := fromRow; row <= toRow; row++ {
		for col := coverageFirstCol; col <= coverageLastCol; col++ {
			v, err := src.Cell(SheetCoverage, col, row)
			if err != nil {
				return err
			}
			if err := dst.SetCell(col-coverageColShift, row+rowShift, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// DigitsOnly keeps the digits of a value as an integer, or "" when none remain.
func DigitsOnly(v any) any {
	digits := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cast.ToString(v))
	if digits == "" {
		return ""
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return ""
	}
	return n
}

// CellText renders a source value for titles. Dates keep only the day.
func CellText(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return cast.ToString(v)
}

// NamePrefix is the first three characters of the customer name, or 고객.
func NamePrefix(v any) string {
	name := CellText(v)
	if name == "" {
		name = defaultCustomer
	}
	runes := []rune(name)
	if len(runes) > prefixRunes {
		runes = runes[:prefixRunes]
	}
	return string(runes)
}

func Title(prefix, detail string) string {
	return fmt.Sprintf("%s님의 기존 보험 보장 분석 %s", prefix, detail)
}

func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s님의_보장분석엑셀_%s.xlsx", prefix, now.Format("20060102"))
}

func columnIndex(letters string) int {
	n := 0
	for _, r := range letters {
		n = n*26 + int(r-'A'+1)
	}
	return n
}
