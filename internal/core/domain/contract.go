package domain

import "time"

// ContractRecord is one row of an uploaded contract list. Numeric fields hold
// NaN when the source cell could not be read as a number.
type ContractRecord struct {
	Row           int     `json:"row"`
	Collector     string  `json:"collector"`
	ContractDate  string  `json:"contract_date"`
	Carrier       string  `json:"carrier"`
	Product       string  `json:"product"`
	PaymentTerm   int     `json:"payment_term"`
	FirstPremium  float64 `json:"first_premium"`
	ShareRate     float64 `json:"share_rate"`
	RawShareRate  string  `json:"raw_share_rate,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	SubCategory   string  `json:"sub_category,omitempty"`
	Status        string  `json:"status,omitempty"`
}

// ContractSheet is a parsed upload: the records plus which optional columns it carried.
type ContractSheet struct {
	Records          []ContractRecord
	Headers          []string
	HasCollector     bool
	HasFilterColumns bool
}

// CarrierGroup is a normalized carrier bucket. Known is false for the
// unclassified variant, whose Name is the raw input label.
type CarrierGroup struct {
	Name  string `json:"name"`
	Known bool   `json:"known"`
}

type Classification struct {
	Group          CarrierGroup `json:"group"`
	ConventionRate int          `json:"convention_rate"`
	SummerRate     int          `json:"summer_rate"`
}

type DerivedAmounts struct {
	Performance float64 `json:"performance"`
	Convention  float64 `json:"convention"`
	Summer      float64 `json:"summer"`
}

type EvaluatedContract struct {
	Record         ContractRecord `json:"record"`
	Classification Classification `json:"classification"`
	Amounts        DerivedAmounts `json:"amounts"`
	Date           time.Time      `json:"-"`
	DateValid      bool           `json:"date_valid"`
}

type ExcludedContract struct {
	Record  ContractRecord `json:"record"`
	Reasons []string       `json:"reasons"`
	Reason  string         `json:"reason"`
}

// AggregateRow holds per-collector sums over valid records and the threshold flags.
type AggregateRow struct {
	Collector       string  `json:"collector"`
	Count           int     `json:"count"`
	PerformanceSum  float64 `json:"performance_sum"`
	ConventionSum   float64 `json:"convention_sum"`
	SummerSum       float64 `json:"summer_sum"`
	ConventionTiers []bool  `json:"convention_tiers"`
	SummerTargetMet bool    `json:"summer_target_met"`
	MinCountMet     bool    `json:"min_count_met"`
	FlagshipPresent bool    `json:"flagship_present"`
	Compliant       bool    `json:"compliant"`
}

// ConventionAnalysis is the full outcome of one convention run.
type ConventionAnalysis struct {
	SourceName    string              `json:"source_name"`
	FilterApplied bool                `json:"filter_applied"`
	Valid         []EvaluatedContract `json:"valid"`
	Excluded      []ExcludedContract  `json:"excluded"`
	Groups        []AggregateRow      `json:"groups"`
	Totals        AggregateRow        `json:"totals"`
	InvalidDates  int                 `json:"invalid_dates"`
}
