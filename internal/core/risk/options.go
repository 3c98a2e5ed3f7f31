package risk

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

const (
	ReportFileName    = "risk_report_v1_2.csv"
	ReportContentType = "text/csv; charset=utf-8"

	conditionSeparator = "+"
)

var (
	SmokingChoices  = []string{"비흡연", "흡연"}
	DrinkingChoices = []string{"가벼움/없음", "과음"}
	FamilyChoices   = []string{"없음", "있음"}
	JobChoices      = []string{"사무직", "육체노동직", "학생", "자영업", "무직"}
	ExerciseChoices = []string{"규칙적으로 운동", "가끔 운동", "거의 안함"}
)

// Options lists the form choices. Age bands, sexes and conditions come from
// the base table; condition cells like "고혈압+당뇨" are split.
func Options(tables domain.RiskTables) domain.RiskOptions {
	ages := map[string]struct{}{}
	sexes := map[string]struct{}{}
	conditions := map[string]struct{}{}
	for _, r := range tables.Base {
		ages[r.AgeBand] = struct{}{}
		sexes[r.Sex] = struct{}{}
		for _, c := range strings.Split(r.Conditions, conditionSeparator) {
			if c = strings.TrimSpace(c); c != "" {
				conditions[c] = struct{}{}
			}
		}
	}
	return domain.RiskOptions{
		AgeBands:   sortedKeys(ages),
		Sexes:      sortedKeys(sexes),
		Conditions: sortedKeys(conditions),
		Smoking:    slices.Clone(SmokingChoices),
		Drinking:   slices.Clone(DrinkingChoices),
		Family:     slices.Clone(FamilyChoices),
		Jobs:       slices.Clone(JobChoices),
		Exercise:   slices.Clone(ExerciseChoices),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

var reportHeader = []string{
	"질병군", "기본 위험률", "보정 위험률", "적용 계수",
	"진단비 보유율(%)", "치료비 보유율(%)", "평균 치료비용(만원)", "평균 회복기간(일)", "권장 진단비(만원)",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the report with a UTF-8 byte order mark so spreadsheet
// applications pick the right encoding.
func WriteCSV(w io.Writer, rep domain.RiskReport) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rep.Rows {
		record := []string{
			r.Category,
			formatFloat(r.BaseRisk),
			formatFloat(r.AdjustedRisk),
			formatFloat(r.Multiplier),
			r.DiagnosisRate,
			r.TreatmentRate,
			formatFloat(r.MedianCost),
			r.RecoveryDays,
			strconv.FormatInt(r.RecommendedDiagnosis, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.Category, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
