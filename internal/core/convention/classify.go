package convention

import (
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

// ClassifyCarrier maps free-text carrier names to a carrier group.
// Order: primary literal, life keyword or secondary life carrier, named
// non-life carriers, non-life keywords, pass-through.
func ClassifyCarrier(carrier string) domain.CarrierGroup {
	name := strings.TrimSpace(carrier)
	switch {
	case name == PrimaryCarrier:
		return domain.CarrierGroup{Name: PrimaryCarrier, Known: true}
	case containsAny(name, lifeKeywords) || slices.Contains(secondaryLifeCarriers, name):
		return domain.CarrierGroup{Name: OtherLife, Known: true}
	case slices.Contains(namedNonLifeCarriers, name):
		return domain.CarrierGroup{Name: name, Known: true}
	case containsAny(name, nonLifeKeywords):
		return domain.CarrierGroup{Name: OtherNonLife, Known: true}
	default:
		return domain.CarrierGroup{Name: name, Known: false}
	}
}

// Classify resolves the carrier group and both rates for one record.
func Classify(rec domain.ContractRecord) domain.Classification {
	group := ClassifyCarrier(rec.Carrier)
	return domain.Classification{
		Group:          group,
		ConventionRate: LookupRate(group.Name, rec.PaymentTerm, RateConvention),
		SummerRate:     LookupRate(group.Name, rec.PaymentTerm, RateSummer),
	}
}

// CoerceTerm reads a payment term cell. Non-numeric or missing values become 0.
func CoerceTerm(raw string) int {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "년")
	if raw == "" {
		return 0
	}
	// cast parses with base prefixes; "010" must stay ten.
	if trimmed := strings.TrimLeft(raw, "0"); trimmed != raw {
		if trimmed == "" || trimmed[0] == '.' {
			trimmed = "0" + trimmed
		}
		raw = trimmed
	}
	if n, err := cast.ToIntE(raw); err == nil {
		return n
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0
	}
	return int(f)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
