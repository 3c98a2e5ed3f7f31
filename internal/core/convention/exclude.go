package convention

import (
	"strings"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

const (
	ReasonLumpSum   = "일시납"
	ReasonSavings   = "연금/저축성"
	ReasonWithdrawn = "철회"
	ReasonCancelled = "해약"
	ReasonLapsed    = "실효"
	ReasonUnknown   = "제외 조건 미상"

	reasonSeparator = " / "
)

var (
	lumpSumKeywords = []string{"일시납"}
	savingsKeywords = []string{"연금성", "저축성"}
	statusKeywords  = []string{ReasonWithdrawn, ReasonCancelled, ReasonLapsed}
)

// IsLumpSum, IsSavings and IsTerminated are the three exclusion predicates.
// Matching is case-sensitive substring search on trimmed text.
func IsLumpSum(rec domain.ContractRecord) bool {
	return containsAny(strings.TrimSpace(rec.PaymentMethod), lumpSumKeywords)
}

func IsSavings(rec domain.ContractRecord) bool {
	return containsAny(strings.TrimSpace(rec.SubCategory), savingsKeywords)
}

func IsTerminated(rec domain.ContractRecord) bool {
	return containsAny(strings.TrimSpace(rec.Status), statusKeywords)
}

// IsExcluded is the combined predicate.
func IsExcluded(rec domain.ContractRecord) bool {
	return IsLumpSum(rec) || IsSavings(rec) || IsTerminated(rec)
}

// ExclusionReasons tests each predicate independently and returns the matched labels.
func ExclusionReasons(rec domain.ContractRecord) []string {
	var reasons []string
	if IsLumpSum(rec) {
		reasons = append(reasons, ReasonLumpSum)
	}
	if IsSavings(rec) {
		reasons = append(reasons, ReasonSavings)
	}
	status := strings.TrimSpace(rec.Status)
	for _, kw := range statusKeywords {
		if strings.Contains(status, kw) {
			reasons = append(reasons, kw)
		}
	}
	return reasons
}

// ReasonText joins labels; an empty set falls back to the unknown label.
func ReasonText(reasons []string) string {
	if len(reasons) == 0 {
		return ReasonUnknown
	}
	return strings.Join(reasons, reasonSeparator)
}

// Partition splits records into valid and excluded. When the sheet lacks any of
// the payment method, sub-category or status columns every record passes.
func Partition(records []domain.ContractRecord, filterColumns bool) ([]domain.ContractRecord, []domain.ExcludedContract) {
	if !filterColumns {
		valid := make([]domain.ContractRecord, len(records))
		copy(valid, records)
		return valid, nil
	}

	valid := make([]domain.ContractRecord, 0, len(records))
	var excluded []domain.ExcludedContract
	for _, rec := range records {
		if !IsExcluded(rec) {
			valid = append(valid, rec)
			continue
		}
		reasons := ExclusionReasons(rec)
		excluded = append(excluded, domain.ExcludedContract{
			Record:  rec,
			Reasons: reasons,
			Reason:  ReasonText(reasons),
		})
	}
	return valid, excluded
}
