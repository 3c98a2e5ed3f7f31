// Package convention holds the carrier classification, exclusion, conversion
// and aggregation rules used by the contract performance converter.
package convention

const (
	PrimaryCarrier = "한화생명"
	OtherLife      = "기타생보"
	OtherNonLife   = "기타손보"

	termBracketYears = 10
)

var (
	secondaryLifeCarriers = []string{"신한라이프"}
	lifeKeywords          = []string{"생명"}
	namedNonLifeCarriers  = []string{"한화손보", "삼성화재", "흥국화재", "KB손보"}
	nonLifeKeywords       = []string{"손해", "화재", "손보", "해상"}
)

// RateType identifies one incentive scheme.
type RateType string

const (
	RateConvention RateType = "convention"
	RateSummer     RateType = "summer"
)

type rateKey struct {
	group    string
	longTerm bool
	rateType RateType
}

var rateTable = buildRateTable()

func buildRateTable() map[rateKey]int {
	t := map[rateKey]int{}
	put := func(group string, rt RateType, short, long int) {
		t[rateKey{group: group, longTerm: false, rateType: rt}] = short
		t[rateKey{group: group, longTerm: true, rateType: rt}] = long
	}

	put(PrimaryCarrier, RateConvention, 120, 120)
	put(PrimaryCarrier, RateSummer, 100, 150)
	for _, carrier := range namedNonLifeCarriers {
		put(carrier, RateConvention, 250, 250)
		put(carrier, RateSummer, 100, 200)
	}
	put(OtherNonLife, RateConvention, 200, 200)
	put(OtherNonLife, RateSummer, 50, 100)
	put(OtherLife, RateConvention, 50, 100)
	put(OtherLife, RateSummer, 30, 100)
	return t
}

// LookupRate returns the percentage for a group and term. Unknown groups yield 0.
func LookupRate(group string, term int, rt RateType) int {
	return rateTable[rateKey{group: group, longTerm: term >= termBracketYears, rateType: rt}]
}

// Thresholds are process-wide and not user-configurable.
var ConventionTiers = []float64{1_500_000, 3_000_000, 4_500_000}

const (
	SummerTarget  float64 = 3_000_000
	FlagshipFloor float64 = 100_000
)

const (
	MinRecordCount   = 3
	UnnamedCollector = "미지정"
)

// ConventionTarget is the primary target used for gap messaging.
func ConventionTarget() float64 {
	return ConventionTiers[0]
}
