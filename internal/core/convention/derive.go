package convention

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

// DeriveOptions controls the amount derivation. ShareRateWeighting is kept off;
// performance premium is the base premium verbatim unless it is enabled.
type DeriveOptions struct {
	ShareRateWeighting bool
}

// Derive computes performance premium and one converted amount per rate type.
// No rounding happens here; NaN inputs propagate.
func Derive(rec domain.ContractRecord, cls domain.Classification, opts DeriveOptions) domain.DerivedAmounts {
	performance := rec.FirstPremium
	if opts.ShareRateWeighting {
		performance = performance * rec.ShareRate / 100
	}
	return domain.DerivedAmounts{
		Performance: performance,
		Convention:  performance * float64(cls.ConventionRate) / 100,
		Summer:      performance * float64(cls.SummerRate) / 100,
	}
}

// ParseAmount reads a premium cell. Thousands separators and a trailing 원 are
// tolerated; anything else yields NaN.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "원")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return math.NaN()
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ParseShareRate strips a percent sign. Empty input reports ok=false so the
// caller can halt the run; other unreadable values become NaN.
func ParseShareRate(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN(), false
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return math.NaN(), true
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006.01.02",
	"2006. 1. 2.",
	"2006. 1. 2",
	"20060102",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
}

// ParseContractDate accepts the layouts seen in carrier exports.
func ParseContractDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
