package domain

// RiskProfile is the customer input for the disease-risk report.
type RiskProfile struct {
	AgeBand    string   `json:"age_band"`
	Sex        string   `json:"sex"`
	Smoking    string   `json:"smoking"`
	Drinking   string   `json:"drinking"`
	Family     string   `json:"family_history"`
	Conditions []string `json:"conditions"`
	Job        string   `json:"job"`
	Exercise   string   `json:"exercise"`
}

type BaseRiskRow struct {
	Category   string
	AgeBand    string
	Sex        string
	Conditions string
	Rate       float64
}

type AdjustRow struct {
	Category    string
	FactorKind  string
	FactorValue string
	Coefficient float64
	Weight      float64
}

// TreatmentRow values are NaN when the column is absent from the table.
type TreatmentRow struct {
	Disease      string
	AvgCost      float64
	SurgeryCost  float64
	RecoveryDays float64
}

type CoverageRateRow struct {
	Disease       string
	DiagnosisRate string
	TreatmentRate string
}

// RiskTables groups the four lookup tables the risk report reads.
type RiskTables struct {
	Base      []BaseRiskRow
	Adjust    []AdjustRow
	Treatment []TreatmentRow
	Coverage  []CoverageRateRow
}

type FactorLog struct {
	Kind        string  `json:"kind"`
	Value       string  `json:"value"`
	Coefficient float64 `json:"coefficient"`
	Weight      float64 `json:"weight"`
}

type RiskResultRow struct {
	Category             string      `json:"category"`
	Disease              string      `json:"disease"`
	BaseRisk             float64     `json:"base_risk"`
	AdjustedRisk         float64     `json:"adjusted_risk"`
	Multiplier           float64     `json:"multiplier"`
	DiagnosisRate        string      `json:"diagnosis_rate"`
	TreatmentRate        string      `json:"treatment_rate"`
	MedianCost           float64     `json:"median_cost"`
	RecoveryDays         string      `json:"recovery_days"`
	RecommendedDiagnosis int64       `json:"recommended_diagnosis"`
	Factors              []FactorLog `json:"factors"`
}

type RiskReport struct {
	Rows     []RiskResultRow `json:"rows"`
	Warnings []string        `json:"warnings,omitempty"`
}

type RiskOptions struct {
	AgeBands   []string `json:"age_bands"`
	Sexes      []string `json:"sexes"`
	Conditions []string `json:"conditions"`
	Smoking    []string `json:"smoking"`
	Drinking   []string `json:"drinking"`
	Family     []string `json:"family_history"`
	Jobs       []string `json:"jobs"`
	Exercise   []string `json:"exercise"`
}
