package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kirillkom/insurance-consult-kit/internal/core/convention"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

const (
	reportSuffix    = "_환산결과.xlsx"
	defaultBaseName = "계약"
)

type ConventionOptions struct {
	ShowSummer         bool
	ShareRateWeighting bool
}

type ConventionUseCase struct {
	reader   ports.ContractSheetReader
	writer   ports.ConventionWorkbookWriter
	recorder ports.AnalysisRecorder
	opts     ConventionOptions
}

func NewConventionUseCase(
	reader ports.ContractSheetReader,
	writer ports.ConventionWorkbookWriter,
	recorder ports.AnalysisRecorder,
	opts ConventionOptions,
) *ConventionUseCase {
	return &ConventionUseCase{
		reader:   reader,
		writer:   writer,
		recorder: recorderOrNoop(recorder),
		opts:     opts,
	}
}

func (uc *ConventionUseCase) Analyze(ctx context.Context, filename string, body io.Reader) (view *report.ConventionView, err error) {
	defer func() { uc.recorder.RecordRun(ModuleConvention, statusOf(err)) }()
	return uc.analyze(ctx, filename, body)
}

func (uc *ConventionUseCase) Report(ctx context.Context, filename string, body io.Reader) (file *domain.GeneratedFile, view *report.ConventionView, err error) {
	defer func() { uc.recorder.RecordRun(ModuleConvention, statusOf(err)) }()

	view, err = uc.analyze(ctx, filename, body)
	if err != nil {
		return nil, nil, err
	}
	data, err := uc.writer.WriteConvention(ctx, *view)
	if err != nil {
		return nil, nil, fmt.Errorf("write convention workbook: %w", err)
	}
	return &domain.GeneratedFile{
		Name:        ReportFileName(filename),
		ContentType: domain.XLSXContentType,
		Data:        data,
	}, view, nil
}

func (uc *ConventionUseCase) analyze(ctx context.Context, filename string, body io.Reader) (*report.ConventionView, error) {
	sheet, err := uc.reader.ReadContracts(ctx, body)
	if err != nil {
		return nil, err
	}
	analysis := convention.Analyze(sheet, convention.DeriveOptions{ShareRateWeighting: uc.opts.ShareRateWeighting})
	analysis.SourceName = filename
	uc.recorder.RecordExcluded(len(analysis.Excluded))
	uc.recorder.RecordInvalidDates(analysis.InvalidDates)

	view := report.BuildConventionView(analysis, uc.opts.ShowSummer)
	return &view, nil
}

// ReportFileName derives "<base>_환산결과.xlsx" from the uploaded file name.
func ReportFileName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = defaultBaseName
	}
	return base + reportSuffix
}
