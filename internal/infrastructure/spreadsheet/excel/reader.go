// Package excel reads and writes the xlsx workbooks used by the consulting tools.
package excel

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/insurance-consult-kit/internal/core/convention"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

// Contract sheet headers.
const (
	HeaderDate        = "계약일"
	HeaderCarrier     = "보험사"
	HeaderProduct     = "상품명"
	HeaderTerm        = "납입기간"
	HeaderPremium     = "초회보험료"
	HeaderShareRate   = "쉐어율"
	HeaderMethod      = "납입방법"
	HeaderSubCategory = "상품군2"
	HeaderStatus      = "계약상태"
	HeaderCollector   = "모집인"

	isoDate = "2006-01-02"
)

var (
	requiredHeaders = []string{HeaderDate, HeaderCarrier, HeaderProduct, HeaderTerm, HeaderPremium, HeaderShareRate}
	filterHeaders   = []string{HeaderMethod, HeaderSubCategory, HeaderStatus}
)

type ContractReader struct{}

func NewContractReader() *ContractReader {
	return &ContractReader{}
}

// ReadContracts reads the first sheet. Missing required headers and empty
// share rates stop the run before any record is returned.
func (r *ContractReader) ReadContracts(ctx context.Context, body io.Reader) (domain.ContractSheet, error) {
	f, err := excelize.OpenReader(body)
	if err != nil {
		return domain.ContractSheet{}, domain.WrapError(domain.ErrWorkbookOpen, "open contract workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.ContractSheet{}, domain.WrapError(domain.ErrInvalidInput, "read contract workbook", fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.ContractSheet{}, domain.WrapError(domain.ErrWorkbookOpen, "read contract rows", err)
	}
	if len(rows) == 0 {
		return domain.ContractSheet{}, &domain.MissingColumnsError{Columns: append([]string(nil), requiredHeaders...)}
	}

	index := headerIndex(rows[0])
	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return domain.ContractSheet{}, &domain.MissingColumnsError{Columns: missing}
	}

	sheet := domain.ContractSheet{Headers: rows[0], HasFilterColumns: true}
	for _, h := range filterHeaders {
		if _, ok := index[h]; !ok {
			sheet.HasFilterColumns = false
		}
	}
	_, sheet.HasCollector = index[HeaderCollector]

	var emptyShare []int
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return domain.ContractSheet{}, err
		}
		if blank(row) {
			continue
		}
		rowNum := i + 2
		cell := func(header string) string {
			col, ok := index[header]
			if !ok || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		share, ok := convention.ParseShareRate(cell(HeaderShareRate))
		if !ok {
			emptyShare = append(emptyShare, rowNum)
		}
		sheet.Records = append(sheet.Records, domain.ContractRecord{
			Row:           rowNum,
			Collector:     cell(HeaderCollector),
			ContractDate:  normalizeDate(cell(HeaderDate)),
			Carrier:       cell(HeaderCarrier),
			Product:       cell(HeaderProduct),
			PaymentTerm:   convention.CoerceTerm(cell(HeaderTerm)),
			FirstPremium:  convention.ParseAmount(cell(HeaderPremium)),
			ShareRate:     share,
			RawShareRate:  cell(HeaderShareRate),
			PaymentMethod: cell(HeaderMethod),
			SubCategory:   cell(HeaderSubCategory),
			Status:        cell(HeaderStatus),
		})
	}
	if len(emptyShare) > 0 {
		return domain.ContractSheet{}, domain.WrapError(domain.ErrInvalidInput, "read share rate",
			fmt.Errorf("'%s'에 빈 값이 포함되어 있습니다 (행 %s)", HeaderShareRate, joinInts(emptyShare)))
	}
	return sheet, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup && h != "" {
			index[h] = i
		}
	}
	return index
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// normalizeDate turns an Excel serial date into ISO text. Other values,
// including eight-digit yyyymmdd numbers, pass through for later parsing.
func normalizeDate(raw string) string {
	if len(raw) == 8 && !strings.ContainsAny(raw, ".-/ ") {
		return raw
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 || math.IsInf(serial, 0) {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Format(isoDate)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
