package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kirillkom/insurance-consult-kit/internal/core/coverage"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
)

const printTemplateName = "print.xlsx"

type CoverageCopyUseCase struct {
	copier    ports.CoverageWorkbookCopier
	templates ports.PrintTemplateSource
	sessions  ports.SessionStore
	recorder  ports.AnalysisRecorder
	now       func() time.Time
}

func NewCoverageCopyUseCase(
	copier ports.CoverageWorkbookCopier,
	templates ports.PrintTemplateSource,
	sessions ports.SessionStore,
	recorder ports.AnalysisRecorder,
	now func() time.Time,
) *CoverageCopyUseCase {
	if now == nil {
		now = time.Now
	}
	return &CoverageCopyUseCase{
		copier:    copier,
		templates: templates,
		sessions:  sessions,
		recorder:  recorderOrNoop(recorder),
		now:       now,
	}
}

// Copy fills the uploaded template, or the default one when template is nil.
// A custom range is honoured only together with an uploaded template and is
// remembered for the session.
func (uc *CoverageCopyUseCase) Copy(
	ctx context.Context,
	sessionID string,
	source io.Reader,
	template io.Reader,
	rng *domain.CopyRange,
) (file *domain.GeneratedFile, err error) {
	defer func() { uc.recorder.RecordRun(ModuleCoverage, statusOf(err)) }()

	session, err := loadSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return nil, err
	}

	effective := coverage.DefaultRange
	remember := false
	if template != nil {
		switch {
		case rng != nil:
			if err := coverage.ValidateRange(*rng); err != nil {
				return nil, err
			}
			effective = *rng
			remember = true
		case session != nil && session.CopyRange != nil:
			effective = *session.CopyRange
		}
	} else {
		data, err := uc.templates.PrintTemplate(ctx)
		if err != nil {
			return nil, fmt.Errorf("load print template: %w", err)
		}
		template = bytes.NewReader(data)
	}

	result, err := uc.copier.CopyCoverage(ctx, source, template, effective)
	if err != nil {
		return nil, err
	}

	if remember && session != nil {
		session.CopyRange = &effective
		if err := saveSession(ctx, uc.sessions, session); err != nil {
			return nil, fmt.Errorf("remember copy range: %w", err)
		}
	}

	return &domain.GeneratedFile{
		Name:        coverage.FileName(result.Prefix, uc.now()),
		ContentType: domain.XLSXContentType,
		Data:        result.Data,
	}, nil
}

func (uc *CoverageCopyUseCase) DefaultTemplate(ctx context.Context) (*domain.GeneratedFile, error) {
	data, err := uc.templates.PrintTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load print template: %w", err)
	}
	return &domain.GeneratedFile{Name: printTemplateName, ContentType: domain.XLSXContentType, Data: data}, nil
}
