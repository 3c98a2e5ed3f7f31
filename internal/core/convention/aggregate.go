package convention

import "github.com/kirillkom/insurance-consult-kit/internal/core/domain"

// Evaluate classifies and derives every valid record.
func Evaluate(records []domain.ContractRecord, opts DeriveOptions) ([]domain.EvaluatedContract, int) {
	out := make([]domain.EvaluatedContract, 0, len(records))
	invalidDates := 0
	for _, rec := range records {
		cls := Classify(rec)
		date, ok := ParseContractDate(rec.ContractDate)
		if !ok {
			invalidDates++
		}
		out = append(out, domain.EvaluatedContract{
			Record:         rec,
			Classification: cls,
			Amounts:        Derive(rec, cls, opts),
			Date:           date,
			DateValid:      ok,
		})
	}
	return out, invalidDates
}

// Aggregate groups valid contracts by collector in order of first appearance.
// Empty collector names form their own group.
func Aggregate(valid []domain.EvaluatedContract) []domain.AggregateRow {
	index := map[string]int{}
	var keys []string
	buckets := map[string][]domain.EvaluatedContract{}
	for _, ev := range valid {
		key := ev.Record.Collector
		if _, ok := index[key]; !ok {
			index[key] = len(keys)
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], ev)
	}

	rows := make([]domain.AggregateRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, Summarize(key, buckets[key]))
	}
	return rows
}

// Summarize sums one set of valid contracts and evaluates the threshold flags.
func Summarize(collector string, contracts []domain.EvaluatedContract) domain.AggregateRow {
	row := domain.AggregateRow{
		Collector:       collector,
		Count:           len(contracts),
		ConventionTiers: make([]bool, len(ConventionTiers)),
	}
	for _, ev := range contracts {
		row.PerformanceSum += ev.Amounts.Performance
		row.ConventionSum += ev.Amounts.Convention
		row.SummerSum += ev.Amounts.Summer
		if IsFlagship(ev) {
			row.FlagshipPresent = true
		}
	}
	for i, tier := range ConventionTiers {
		row.ConventionTiers[i] = row.ConventionSum >= tier
	}
	row.SummerTargetMet = row.SummerSum >= SummerTarget
	row.MinCountMet = row.Count >= MinRecordCount
	row.Compliant = row.MinCountMet && row.FlagshipPresent
	return row
}

// IsFlagship reports a primary-carrier contract at or above the premium floor.
func IsFlagship(ev domain.EvaluatedContract) bool {
	return ev.Classification.Group.Name == PrimaryCarrier &&
		ev.Classification.Group.Known &&
		ev.Record.FirstPremium >= FlagshipFloor
}

// FilterByCollector returns the contracts that belong to one group key.
func FilterByCollector(valid []domain.EvaluatedContract, collector string) []domain.EvaluatedContract {
	var out []domain.EvaluatedContract
	for _, ev := range valid {
		if ev.Record.Collector == collector {
			out = append(out, ev)
		}
	}
	return out
}

// ExcludedByCollector is FilterByCollector for the excluded partition.
func ExcludedByCollector(excluded []domain.ExcludedContract, collector string) []domain.ExcludedContract {
	var out []domain.ExcludedContract
	for _, ex := range excluded {
		if ex.Record.Collector == collector {
			out = append(out, ex)
		}
	}
	return out
}

// Analyze runs filter, classification, derivation and aggregation for one sheet.
func Analyze(sheet domain.ContractSheet, opts DeriveOptions) domain.ConventionAnalysis {
	validRecords, excluded := Partition(sheet.Records, sheet.HasFilterColumns)
	evaluated, invalidDates := Evaluate(validRecords, opts)
	totals := Summarize("", evaluated)
	return domain.ConventionAnalysis{
		FilterApplied: sheet.HasFilterColumns,
		Valid:         evaluated,
		Excluded:      excluded,
		Groups:        Aggregate(evaluated),
		Totals:        totals,
		InvalidDates:  invalidDates,
	}
}
