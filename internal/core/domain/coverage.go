package domain

// CoverageValue is one coverage item as entered on a remodel form. Amount-type
// items carry Amount (만원); indemnity-type items carry Choice ("예", "아니오" or empty).
type CoverageValue struct {
	Amount *int64 `json:"amount,omitempty"`
	Choice string `json:"choice,omitempty"`
}

func AmountValue(v int64) CoverageValue {
	return CoverageValue{Amount: &v}
}

func ChoiceValue(v string) CoverageValue {
	return CoverageValue{Choice: v}
}

// Present reports whether the item holds a positive amount or a non-empty choice.
func (v CoverageValue) Present() bool {
	if v.Choice != "" {
		return true
	}
	return v.Amount != nil && *v.Amount > 0
}

func (v CoverageValue) AmountOrZero() int64 {
	if v.Amount == nil {
		return 0
	}
	return *v.Amount
}

// RemodelForm mirrors one side (before or after) of the remodel comparison form.
type RemodelForm struct {
	MonthlyPremium string                   `json:"monthly_premium"`
	PaymentYears   string                   `json:"payment_years"`
	TotalPremium   string                   `json:"total_premium"`
	Items          map[string]CoverageValue `json:"items"`
}

func (f RemodelForm) Clone() RemodelForm {
	out := f
	out.Items = make(map[string]CoverageValue, len(f.Items))
	for k, v := range f.Items {
		if v.Amount != nil {
			amt := *v.Amount
			v.Amount = &amt
		}
		out.Items[k] = v
	}
	return out
}

type ChangeKind string

const (
	ChangeNew           ChangeKind = "new"
	ChangeRemoved       ChangeKind = "removed"
	ChangeIncreased     ChangeKind = "increased"
	ChangeDecreased     ChangeKind = "decreased"
	ChangeFormatChanged ChangeKind = "format_changed"
	ChangeUnchanged     ChangeKind = "unchanged"
)

type CoverageChange struct {
	Group  string        `json:"group"`
	Item   string        `json:"item"`
	Kind   ChangeKind    `json:"kind"`
	Before CoverageValue `json:"before"`
	After  CoverageValue `json:"after"`
	Delta  int64         `json:"delta"`
	Line   string        `json:"line"`
}

type CoverageGroupLines struct {
	Group string   `json:"group"`
	Lines []string `json:"lines"`
}

type ChangeCounts struct {
	Increased     int `json:"increased"`
	Decreased     int `json:"decreased"`
	New           int `json:"new"`
	Removed       int `json:"removed"`
	FormatChanged int `json:"format_changed"`
}

// Total excludes format changes, which are reported but not counted as coverage changes.
func (c ChangeCounts) Total() int {
	return c.Increased + c.Decreased + c.New + c.Removed
}

// Sentence is a narrative line chosen by rule; Key selects its template.
type Sentence struct {
	Key  string         `json:"key"`
	Vars map[string]any `json:"vars,omitempty"`
	Text string         `json:"text"`
}

type RemodelDeltas struct {
	MonthlyFee int64 `json:"monthly_fee"`
	Total      int64 `json:"total"`
	Years      int64 `json:"years"`
	AfterFee   int64 `json:"after_fee"`
}

type RemodelResult struct {
	Changes []CoverageChange     `json:"changes"`
	Groups  []CoverageGroupLines `json:"groups"`
	Counts  ChangeCounts         `json:"counts"`
	Deltas  RemodelDeltas        `json:"deltas"`
	Summary []Sentence           `json:"summary"`
	Effects []Sentence           `json:"effects"`
}
