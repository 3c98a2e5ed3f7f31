package domain

import "time"

// CopyRange is the coverage-sheet row range copied into a custom print template.
type CopyRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Session holds the form inputs a user has entered, scoped to one browser session.
type Session struct {
	ID        string       `json:"id"`
	Before    *RemodelForm `json:"before,omitempty"`
	After     *RemodelForm `json:"after,omitempty"`
	Risk      *RiskProfile `json:"risk,omitempty"`
	CopyRange *CopyRange   `json:"copy_range,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Reset drops every remembered input but keeps the identity.
func (s *Session) Reset(now time.Time) {
	s.Before = nil
	s.After = nil
	s.Risk = nil
	s.CopyRange = nil
	s.UpdatedAt = now
}

// GeneratedFile is a download produced by a run.
type GeneratedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CoverageCopyResult is a filled print template and the customer name prefix
// read from the consulting workbook.
type CoverageCopyResult struct {
	Prefix string
	Data   []byte
}

// Clone returns a deep copy so stored state is never aliased by callers.
func (s *Session) Clone() *Session {
	out := *s
	if s.Before != nil {
		f := s.Before.Clone()
		out.Before = &f
	}
	if s.After != nil {
		f := s.After.Clone()
		out.After = &f
	}
	if s.Risk != nil {
		p := *s.Risk
		p.Conditions = append([]string(nil), s.Risk.Conditions...)
		out.Risk = &p
	}
	if s.CopyRange != nil {
		r := *s.CopyRange
		out.CopyRange = &r
	}
	return &out
}
