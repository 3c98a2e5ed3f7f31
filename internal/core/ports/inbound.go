package ports

import (
	"context"
	"io"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

// ConventionService converts uploaded contract sheets into performance reports.
type ConventionService interface {
	Analyze(ctx context.Context, filename string, body io.Reader) (*report.ConventionView, error)
	Report(ctx context.Context, filename string, body io.Reader) (*domain.GeneratedFile, *report.ConventionView, error)
}

// CoverageCopyService fills a print template from a consulting workbook.
type CoverageCopyService interface {
	Copy(ctx context.Context, sessionID string, source io.Reader, template io.Reader, rng *domain.CopyRange) (*domain.GeneratedFile, error)
	DefaultTemplate(ctx context.Context) (*domain.GeneratedFile, error)
}

// RiskService scores disease risk for a customer profile.
type RiskService interface {
	Options(ctx context.Context) (domain.RiskOptions, error)
	Analyze(ctx context.Context, sessionID string, profile domain.RiskProfile) (*domain.RiskReport, error)
	ReportCSV(ctx context.Context, sessionID string, profile domain.RiskProfile) (*domain.GeneratedFile, error)
}

// RemodelService compares before and after coverage forms.
type RemodelService interface {
	Form(ctx context.Context, sessionID string) (domain.RemodelForm, domain.RemodelForm, error)
	SaveForm(ctx context.Context, sessionID string, before domain.RemodelForm, after *domain.RemodelForm) error
	Compare(ctx context.Context, sessionID string, before *domain.RemodelForm, after *domain.RemodelForm) (*domain.RemodelResult, error)
}

// SessionService manages per-session state.
type SessionService interface {
	Start(ctx context.Context) (*domain.Session, error)
	Resolve(ctx context.Context, id string) (*domain.Session, error)
	Reset(ctx context.Context, id string) (*domain.Session, error)
}
