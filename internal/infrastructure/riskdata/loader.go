// Package riskdata loads the disease-risk lookup tables from CSV.
package riskdata

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
)

//go:embed defaults/*.csv
var defaults embed.FS

const (
	FileBase      = "disease_risk.csv"
	FileAdjust    = "disease_adjust.csv"
	FileTreatment = "disease_treatment.csv"
	FileCoverage  = "disease_coverage.csv"
)

// Canonical column names.
const (
	colCategory    = "질병군"
	colAgeBand     = "연령대"
	colSex         = "성별"
	colConditions  = "기저질환"
	colRate        = "위험률"
	colFactorKind  = "항목종류"
	colFactorValue = "항목명"
	colCoefficient = "조정계수"
	colWeight      = "가중치"
	colDisease     = "질병"
	colAvgCost     = "평균치료비용"
	colSurgeryCost = "수술비용"
	colRecovery    = "회복기간"
	colDiagnosis   = "진단비보유율"
	colTreatment   = "치료비보유율"
)

var columnAliases = map[string]string{
	"위험률(명/1000)": colRate,
	"계수":          colCoefficient,
	"weight":      colWeight,
	"평균치료비용(만원)":  colAvgCost,
	"수술비용(만원)":    colSurgeryCost,
	"회복기간(일)":     colRecovery,
	"진단비보유율(%)":   colDiagnosis,
	"치료비보유율(%)":   colTreatment,
}

// Loader reads each table from storage when present and falls back to the
// built-in copy otherwise. Tables are cached after the first full load.
type Loader struct {
	storage ports.ObjectStorage

	mu     sync.Mutex
	cached *domain.RiskTables
}

// NewLoader accepts a nil storage to use only the built-in tables.
func NewLoader(storage ports.ObjectStorage) *Loader {
	return &Loader{storage: storage}
}

func (l *Loader) LoadRiskTables(ctx context.Context) (domain.RiskTables, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return *l.cached, nil
	}

	var tables domain.RiskTables
	base, err := l.table(ctx, FileBase, colCategory, colAgeBand, colSex, colRate)
	if err != nil {
		return domain.RiskTables{}, err
	}
	for _, r := range base {
		tables.Base = append(tables.Base, domain.BaseRiskRow{
			Category:   r[colCategory],
			AgeBand:    r[colAgeBand],
			Sex:        r[colSex],
			Conditions: r[colConditions],
			Rate:       number(r[colRate]),
		})
	}

	adjust, err := l.table(ctx, FileAdjust, colCategory, colFactorKind, colFactorValue, colCoefficient)
	if err != nil {
		return domain.RiskTables{}, err
	}
	for _, r := range adjust {
		weight := 1.0
		if v, ok := r[colWeight]; ok && strings.TrimSpace(v) != "" {
			weight = number(v)
		}
		tables.Adjust = append(tables.Adjust, domain.AdjustRow{
			Category:    r[colCategory],
			FactorKind:  r[colFactorKind],
			FactorValue: r[colFactorValue],
			Coefficient: number(r[colCoefficient]),
			Weight:      weight,
		})
	}

	treatment, err := l.table(ctx, FileTreatment, colDisease)
	if err != nil {
		return domain.RiskTables{}, err
	}
	for _, r := range treatment {
		tables.Treatment = append(tables.Treatment, domain.TreatmentRow{
			Disease:      r[colDisease],
			AvgCost:      optionalNumber(r, colAvgCost),
			SurgeryCost:  optionalNumber(r, colSurgeryCost),
			RecoveryDays: optionalNumber(r, colRecovery),
		})
	}

	coverage, err := l.table(ctx, FileCoverage, colDisease)
	if err != nil {
		return domain.RiskTables{}, err
	}
	for _, r := range coverage {
		tables.Coverage = append(tables.Coverage, domain.CoverageRateRow{
			Disease:       r[colDisease],
			DiagnosisRate: r[colDiagnosis],
			TreatmentRate: r[colTreatment],
		})
	}

	l.cached = &tables
	return tables, nil
}

func (l *Loader) table(ctx context.Context, name string, required ...string) ([]map[string]string, error) {
	data, err := l.read(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := parseTable(bytes.NewReader(data), required)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse "+name, err)
	}
	return rows, nil
}

func (l *Loader) read(ctx context.Context, name string) ([]byte, error) {
	if l.storage != nil {
		rc, err := l.storage.Open(ctx, name)
		switch {
		case err == nil:
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			return data, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
	}
	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("read built-in %s: %w", name, err)
	}
	return data, nil
}

// parseTable maps each row to canonical column names.
func parseTable(r io.Reader, required []string) ([]map[string]string, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty table")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	present := map[string]bool{}
	for i, h := range header {
		names[i] = canonical(h)
		present[names[i]] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Columns: missing}
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]string, len(names))
		for i, v := range record {
			if i < len(names) {
				row[names[i]] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func canonical(header string) string {
	h := strings.TrimSpace(header)
	if alias, ok := columnAliases[h]; ok {
		return alias
	}
	return h
}

func number(v string) float64 {
	f, err := cast.ToFloat64E(strings.TrimSpace(v))
	if err != nil {
		return math.NaN()
	}
	return f
}

func optionalNumber(row map[string]string, col string) float64 {
	v, ok := row[col]
	if !ok || v == "" {
		return math.NaN()
	}
	return number(v)
}

func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(r, buf)
	if err != nil || n < 3 {
		return io.MultiReader(bytes.NewReader(buf[:n]), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(bytes.NewReader(buf[:n]), r)
}
