package metrics

func (m *Metrics) RecordRun(module, status string) {
	if module == "" {
		module = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.analysisRuns.WithLabelValues(m.service, module, status).Inc()
}

func (m *Metrics) RecordExcluded(count int) {
	if count > 0 {
		m.excludedRecords.Add(float64(count))
	}
}

func (m *Metrics) RecordInvalidDates(count int) {
	if count > 0 {
		m.invalidDates.Add(float64(count))
	}
}
