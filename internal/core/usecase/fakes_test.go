package usecase

import (
	"context"
	"io"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

type sessionStoreFake struct {
	sessions map[string]*domain.Session
	saves    int
}

func newSessionStoreFake(ids ...string) *sessionStoreFake {
	f := &sessionStoreFake{sessions: map[string]*domain.Session{}}
	for _, id := range ids {
		f.sessions[id] = &domain.Session{ID: id}
	}
	return f
}

func (f *sessionStoreFake) Create(context.Context) (*domain.Session, error) {
	s := &domain.Session{ID: "new"}
	f.sessions[s.ID] = s
	return s.Clone(), nil
}

func (f *sessionStoreFake) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (f *sessionStoreFake) Save(_ context.Context, s *domain.Session) error {
	f.saves++
	f.sessions[s.ID] = s.Clone()
	return nil
}

func (f *sessionStoreFake) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type recorderFake struct {
	runs         map[string]int
	excluded     int
	invalidDates int
}

func newRecorderFake() *recorderFake {
	return &recorderFake{runs: map[string]int{}}
}

func (r *recorderFake) RecordRun(module, status string) { r.runs[module+"/"+status]++ }
func (r *recorderFake) RecordExcluded(n int)            { r.excluded += n }
func (r *recorderFake) RecordInvalidDates(n int)        { r.invalidDates += n }

type contractReaderFake struct {
	sheet domain.ContractSheet
	err   error
}

func (f *contractReaderFake) ReadContracts(context.Context, io.Reader) (domain.ContractSheet, error) {
	return f.sheet, f.err
}

type conventionWriterFake struct {
	view *report.ConventionView
}

func (f *conventionWriterFake) WriteConvention(_ context.Context, view report.ConventionView) ([]byte, error) {
	f.view = &view
	return []byte("xlsx"), nil
}

type copierFake struct {
	template string
	rng      domain.CopyRange
}

func (f *copierFake) CopyCoverage(_ context.Context, _ io.Reader, template io.Reader, rng domain.CopyRange) (domain.CoverageCopyResult, error) {
	data, _ := io.ReadAll(template)
	f.template = string(data)
	f.rng = rng
	return domain.CoverageCopyResult{Prefix: "홍길동", Data: []byte("out")}, nil
}

type templateSourceFake struct{}

func (templateSourceFake) PrintTemplate(context.Context) ([]byte, error) {
	return []byte("default"), nil
}

type riskTablesFake struct {
	tables domain.RiskTables
}

func (f riskTablesFake) LoadRiskTables(context.Context) (domain.RiskTables, error) {
	return f.tables, nil
}

// keyRenderer echoes each key as the text.
type keyRenderer struct{}

func (keyRenderer) Render(_ context.Context, in []domain.Sentence) ([]domain.Sentence, error) {
	out := make([]domain.Sentence, len(in))
	for i, s := range in {
		s.Text = s.Key
		out[i] = s
	}
	return out, nil
}
