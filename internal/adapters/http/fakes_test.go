package httpadapter

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/kirillkom/insurance-consult-kit/internal/config"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/remodel"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

type conventionFake struct {
	err      error
	filename string
	body     string
}

func (f *conventionFake) Analyze(_ context.Context, filename string, body io.Reader) (*report.ConventionView, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(body)
	f.filename, f.body = filename, string(data)
	return &report.ConventionView{Warnings: []string{"w"}}, nil
}

func (f *conventionFake) Report(ctx context.Context, filename string, body io.Reader) (*domain.GeneratedFile, *report.ConventionView, error) {
	view, err := f.Analyze(ctx, filename, body)
	if err != nil {
		return nil, nil, err
	}
	return &domain.GeneratedFile{Name: "계약_환산결과.xlsx", ContentType: domain.XLSXContentType, Data: []byte("xlsx")}, view, nil
}

type coverageFake struct {
	err         error
	sessionID   string
	hasTemplate bool
	rng         *domain.CopyRange
}

func (f *coverageFake) Copy(_ context.Context, sessionID string, _ io.Reader, template io.Reader, rng *domain.CopyRange) (*domain.GeneratedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sessionID, f.hasTemplate, f.rng = sessionID, template != nil, rng
	return &domain.GeneratedFile{Name: "report.xlsx", ContentType: domain.XLSXContentType, Data: []byte("copied")}, nil
}

func (f *coverageFake) DefaultTemplate(context.Context) (*domain.GeneratedFile, error) {
	return &domain.GeneratedFile{Name: "print.xlsx", ContentType: domain.XLSXContentType, Data: []byte("tpl")}, nil
}

type riskFake struct {
	err     error
	profile domain.RiskProfile
}

func (f *riskFake) Options(context.Context) (domain.RiskOptions, error) {
	return domain.RiskOptions{AgeBands: []string{"40대"}, Sexes: []string{"남", "여"}}, f.err
}

func (f *riskFake) Analyze(_ context.Context, _ string, profile domain.RiskProfile) (*domain.RiskReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.profile = profile
	return &domain.RiskReport{Rows: []domain.RiskResultRow{{Category: "암"}}}, nil
}

func (f *riskFake) ReportCSV(context.Context, string, domain.RiskProfile) (*domain.GeneratedFile, error) {
	return &domain.GeneratedFile{Name: "risk.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("a,b\n")}, f.err
}

type remodelFake struct {
	err    error
	before *domain.RemodelForm
	saved  bool
}

func (f *remodelFake) Form(context.Context, string) (domain.RemodelForm, domain.RemodelForm, error) {
	return domain.RemodelForm{MonthlyPremium: "100,000"}, domain.RemodelForm{}, f.err
}

func (f *remodelFake) SaveForm(_ context.Context, _ string, before domain.RemodelForm, _ *domain.RemodelForm) error {
	f.before, f.saved = &before, true
	return f.err
}

func (f *remodelFake) Compare(_ context.Context, _ string, before, _ *domain.RemodelForm) (*domain.RemodelResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.before = before
	return &domain.RemodelResult{Groups: []domain.CoverageGroupLines{
		{Group: "a", Lines: []string{"1"}},
		{Group: "b", Lines: []string{"2"}},
		{Group: "c", Lines: []string{"3"}},
	}}, nil
}

type sessionsFake struct {
	known   map[string]bool
	started int
}

func (f *sessionsFake) Start(context.Context) (*domain.Session, error) {
	f.started++
	id := "new-session"
	if f.known == nil {
		f.known = map[string]bool{}
	}
	f.known[id] = true
	return &domain.Session{ID: id}, nil
}

func (f *sessionsFake) Resolve(_ context.Context, id string) (*domain.Session, error) {
	if !f.known[id] {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.Session{ID: id}, nil
}

func (f *sessionsFake) Reset(ctx context.Context, id string) (*domain.Session, error) {
	return f.Resolve(ctx, id)
}

type testServices struct {
	convention *conventionFake
	coverage   *coverageFake
	risk       *riskFake
	remodel    *remodelFake
	sessions   *sessionsFake
}

func newTestServices() *testServices {
	return &testServices{
		convention: &conventionFake{},
		coverage:   &coverageFake{},
		risk:       &riskFake{},
		remodel:    &remodelFake{},
		sessions:   &sessionsFake{known: map[string]bool{"s-1": true}},
	}
}

func (s *testServices) handler(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	h, err := NewRouter(cfg, Services{
		Convention: s.convention,
		Coverage:   s.coverage,
		Risk:       s.risk,
		Remodel:    s.remodel,
		Sessions:   s.sessions,
		Taxonomy:   remodel.DefaultTaxonomy(),
	}, nil).Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	return h
}

func newTestHandler(t *testing.T, cfg config.Config) http.Handler {
	return newTestServices().handler(t, cfg)
}
