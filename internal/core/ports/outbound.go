package ports

import (
	"context"
	"io"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

// ObjectStorage stores templates and generated files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ContractSheetReader parses an uploaded contract workbook into records.
type ContractSheetReader interface {
	ReadContracts(ctx context.Context, body io.Reader) (domain.ContractSheet, error)
}

// ConventionWorkbookWriter renders the summary and per-collector sheets.
type ConventionWorkbookWriter interface {
	WriteConvention(ctx context.Context, view report.ConventionView) ([]byte, error)
}

// CoverageWorkbookCopier copies a consulting workbook into a print template.
type CoverageWorkbookCopier interface {
	CopyCoverage(ctx context.Context, source, template io.Reader, rng domain.CopyRange) (domain.CoverageCopyResult, error)
}

// PrintTemplateSource supplies the default print template.
type PrintTemplateSource interface {
	PrintTemplate(ctx context.Context) ([]byte, error)
}

// RiskTableSource loads the four disease-risk lookup tables.
type RiskTableSource interface {
	LoadRiskTables(ctx context.Context) (domain.RiskTables, error)
}

// NarrativeRenderer fills the Text of rule-selected sentences.
type NarrativeRenderer interface {
	Render(ctx context.Context, sentences []domain.Sentence) ([]domain.Sentence, error)
}

// SessionStore keeps per-session form state.
type SessionStore interface {
	Create(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// AnalysisRecorder receives run outcomes for observability.
type AnalysisRecorder interface {
	RecordRun(module, status string)
	RecordExcluded(count int)
	RecordInvalidDates(count int)
}
