// Package risk scores the three major disease categories for a customer
// profile and suggests a diagnosis benefit amount for each.
package risk

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

// Factor kinds as they appear in the adjustment table.
const (
	FactorAgeBand   = "연령대"
	FactorSex       = "성별"
	FactorSmoking   = "흡연여부"
	FactorDrinking  = "음주여부"
	FactorFamily    = "가족력"
	FactorCondition = "기저질환"
	FactorJob       = "직업"
	FactorExercise  = "운동 습관"

	NoCondition = "없음"
	Missing     = "-"

	minRecommended  = 2000
	recommendedStep = 1000
)

// Category pairs the short category code with its disease name in the
// treatment and coverage tables.
type Category struct {
	Code    string
	Disease string
}

var Categories = []Category{
	{Code: "암", Disease: "암"},
	{Code: "뇌", Disease: "뇌혈관질환"},
	{Code: "심장", Disease: "심장질환"},
}

type factorInput struct {
	kind   string
	values []string
}

func factorInputs(p domain.RiskProfile) []factorInput {
	conditions := p.Conditions
	if len(conditions) == 0 {
		conditions = []string{NoCondition}
	}
	return []factorInput{
		{kind: FactorAgeBand, values: []string{p.AgeBand}},
		{kind: FactorSex, values: []string{p.Sex}},
		{kind: FactorSmoking, values: []string{p.Smoking}},
		{kind: FactorDrinking, values: []string{p.Drinking}},
		{kind: FactorFamily, values: []string{p.Family}},
		{kind: FactorCondition, values: conditions},
		{kind: FactorJob, values: []string{p.Job}},
		{kind: FactorExercise, values: []string{p.Exercise}},
	}
}

// Analyze scores every category. A category without a base rate for the
// profile's age band and sex is skipped with a warning.
func Analyze(tables domain.RiskTables, p domain.RiskProfile) (domain.RiskReport, error) {
	if strings.TrimSpace(p.AgeBand) == "" || strings.TrimSpace(p.Sex) == "" {
		return domain.RiskReport{}, domain.WrapError(domain.ErrInvalidInput, "analyze risk", fmt.Errorf("age band and sex are required"))
	}

	var rep domain.RiskReport
	for _, cat := range Categories {
		base, ok := baseRate(tables.Base, cat.Code, p.AgeBand, p.Sex)
		if !ok {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("[데이터 없음] %s / %s / %s", cat.Code, p.AgeBand, p.Sex))
			continue
		}

		multiplier, logs := adjust(tables.Adjust, cat.Code, factorInputs(p))
		row := domain.RiskResultRow{
			Category:      cat.Code,
			Disease:       cat.Disease,
			BaseRisk:      base,
			AdjustedRisk:  round2(base * multiplier),
			Multiplier:    round2(multiplier),
			DiagnosisRate: Missing,
			TreatmentRate: Missing,
			RecoveryDays:  Missing,
			Factors:       logs,
		}

		if tr, ok := treatment(tables.Treatment, cat.Disease); ok {
			row.MedianCost = medianCost(tr.AvgCost, tr.SurgeryCost)
			if !math.IsNaN(tr.RecoveryDays) {
				row.RecoveryDays = strconv.Itoa(int(tr.RecoveryDays))
			}
		}
		if cov, ok := coverage(tables.Coverage, cat.Disease); ok {
			row.DiagnosisRate = orMissing(cov.DiagnosisRate)
			row.TreatmentRate = orMissing(cov.TreatmentRate)
		}
		row.RecommendedDiagnosis = Recommended(row.MedianCost)
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

func baseRate(rows []domain.BaseRiskRow, category, ageBand, sex string) (float64, bool) {
	for _, r := range rows {
		if r.Category == category && r.AgeBand == ageBand && r.Sex == sex {
			return r.Rate, true
		}
	}
	return 0, false
}

// adjust multiplies coefficient^weight for the first matching row of every
// (kind, value) input.
func adjust(rows []domain.AdjustRow, category string, inputs []factorInput) (float64, []domain.FactorLog) {
	multiplier := 1.0
	var logs []domain.FactorLog
	for _, in := range inputs {
		for _, value := range in.values {
			for _, r := range rows {
				if r.Category != category || r.FactorKind != in.kind || r.FactorValue != value {
					continue
				}
				multiplier *= math.Pow(r.Coefficient, r.Weight)
				logs = append(logs, domain.FactorLog{Kind: in.kind, Value: value, Coefficient: r.Coefficient, Weight: r.Weight})
				break
			}
		}
	}
	return multiplier, logs
}

func treatment(rows []domain.TreatmentRow, disease string) (domain.TreatmentRow, bool) {
	for _, r := range rows {
		if r.Disease == disease {
			return r, true
		}
	}
	return domain.TreatmentRow{}, false
}

func coverage(rows []domain.CoverageRateRow, disease string) (domain.CoverageRateRow, bool) {
	for _, r := range rows {
		if r.Disease == disease {
			return r, true
		}
	}
	return domain.CoverageRateRow{}, false
}

// medianCost is the median of whichever of the two costs are known, 0 when neither is.
func medianCost(avg, surgery float64) float64 {
	switch {
	case math.IsNaN(avg) && math.IsNaN(surgery):
		return 0
	case math.IsNaN(avg):
		return surgery
	case math.IsNaN(surgery):
		return avg
	default:
		return (avg + surgery) / 2
	}
}

// Recommended doubles the median cost, floors it at 2,000 and rounds to the
// nearest 1,000 with ties to even (만원).
func Recommended(median float64) int64 {
	v := math.Trunc(math.Max(median*2, minRecommended))
	return int64(math.RoundToEven(v/recommendedStep)) * recommendedStep
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return Missing
	}
	return s
}
