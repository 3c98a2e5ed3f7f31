package remodel

import "github.com/kirillkom/insurance-consult-kit/internal/core/domain"

// Sentence keys. Text for each key is supplied by a narrative renderer.
const (
	KeyFeeSaved       = "fee_saved"
	KeyFeeIncreased   = "fee_increased"
	KeyFeeSame        = "fee_same"
	KeyTotalSaved     = "total_saved"
	KeyTotalIncreased = "total_increased"
	KeyTermShortened  = "term_shortened"
	KeyTermExtended   = "term_extended"
	KeyChangeCounts   = "change_counts"

	KeyEffectFeeSaved       = "effect_fee_saved"
	KeyEffectFeeForCoverage = "effect_fee_for_coverage"
	KeyEffectTotalIncreased = "effect_total_increased"
	KeyEffectTotalSaved     = "effect_total_saved"
	KeyEffectTermExtended   = "effect_term_extended"
	KeyEffectTermShortened  = "effect_term_shortened"
	KeyEffectNewItems       = "effect_new_items"
	KeyEffectStrengthened   = "effect_strengthened"
	KeyEffectStreamlined    = "effect_streamlined"
	KeyEffectExpandedOnly   = "effect_expanded_only"
	KeyEffectTailored       = "effect_tailored"
	KeyEffectClarity        = "effect_clarity"
)

const (
	effectsShortList = 6
	effectsLongList  = 8
)

func sentence(key string, vars map[string]any) domain.Sentence {
	return domain.Sentence{Key: key, Vars: vars}
}

// SummarySentences selects the headline sentences from the delta signs.
func SummarySentences(d domain.RemodelDeltas, c domain.ChangeCounts) []domain.Sentence {
	var out []domain.Sentence
	switch {
	case d.MonthlyFee > 0:
		out = append(out, sentence(KeyFeeSaved, map[string]any{"amount": d.MonthlyFee}))
	case d.MonthlyFee < 0:
		out = append(out, sentence(KeyFeeIncreased, map[string]any{"amount": -d.MonthlyFee}))
	default:
		out = append(out, sentence(KeyFeeSame, nil))
	}

	switch {
	case d.Total > 0:
		vars := map[string]any{"amount": d.Total}
		if d.AfterFee > 0 {
			months := d.Total / d.AfterFee
			vars["payable"] = true
			vars["years"] = months / 12
			vars["months"] = months % 12
		}
		out = append(out, sentence(KeyTotalSaved, vars))
	case d.Total < 0:
		out = append(out, sentence(KeyTotalIncreased, map[string]any{"amount": -d.Total}))
	}

	switch {
	case d.Years > 0:
		out = append(out, sentence(KeyTermShortened, map[string]any{"years": d.Years}))
	case d.Years < 0:
		out = append(out, sentence(KeyTermExtended, map[string]any{"years": -d.Years}))
	}

	out = append(out, sentence(KeyChangeCounts, map[string]any{
		"total":     c.Total(),
		"increased": c.Increased,
		"decreased": c.Decreased,
		"new":       c.New,
		"removed":   c.Removed,
	}))
	return out
}

// EffectSentences selects the expected-effect sentences. Two closing
// sentences are always present; the list is capped at six when short and
// at eight otherwise.
func EffectSentences(d domain.RemodelDeltas, c domain.ChangeCounts) []domain.Sentence {
	var out []domain.Sentence
	gained := c.Increased + c.New

	switch {
	case d.MonthlyFee > 0:
		out = append(out, sentence(KeyEffectFeeSaved, nil))
	case d.MonthlyFee < 0 && gained > 0:
		out = append(out, sentence(KeyEffectFeeForCoverage, nil))
	}

	switch {
	case d.Total < 0:
		out = append(out, sentence(KeyEffectTotalIncreased, nil))
	case d.Total > 0:
		out = append(out, sentence(KeyEffectTotalSaved, nil))
	}

	switch {
	case d.Years < 0:
		out = append(out, sentence(KeyEffectTermExtended, nil))
	case d.Years > 0:
		out = append(out, sentence(KeyEffectTermShortened, nil))
	}

	if c.New > 0 {
		out = append(out, sentence(KeyEffectNewItems, map[string]any{"count": c.New}))
	}
	if c.Increased > 0 {
		out = append(out, sentence(KeyEffectStrengthened, map[string]any{"count": c.Increased}))
	}
	if c.Removed > 0 {
		out = append(out, sentence(KeyEffectStreamlined, nil))
	}
	if c.Decreased == 0 && c.Removed == 0 && gained > 0 {
		out = append(out, sentence(KeyEffectExpandedOnly, nil))
	}

	out = append(out, sentence(KeyEffectTailored, nil), sentence(KeyEffectClarity, nil))

	limit := effectsLongList
	if len(out) <= effectsShortList {
		limit = effectsShortList
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
