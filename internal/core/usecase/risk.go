package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
	"github.com/kirillkom/insurance-consult-kit/internal/core/risk"
)

type RiskUseCase struct {
	tables   ports.RiskTableSource
	sessions ports.SessionStore
	recorder ports.AnalysisRecorder
}

func NewRiskUseCase(tables ports.RiskTableSource, sessions ports.SessionStore, recorder ports.AnalysisRecorder) *RiskUseCase {
	return &RiskUseCase{tables: tables, sessions: sessions, recorder: recorderOrNoop(recorder)}
}

func (uc *RiskUseCase) Options(ctx context.Context) (domain.RiskOptions, error) {
	tables, err := uc.tables.LoadRiskTables(ctx)
	if err != nil {
		return domain.RiskOptions{}, fmt.Errorf("load risk tables: %w", err)
	}
	return risk.Options(tables), nil
}

func (uc *RiskUseCase) Analyze(ctx context.Context, sessionID string, profile domain.RiskProfile) (rep *domain.RiskReport, err error) {
	defer func() { uc.recorder.RecordRun(ModuleRisk, statusOf(err)) }()
	return uc.analyze(ctx, sessionID, profile)
}

func (uc *RiskUseCase) ReportCSV(ctx context.Context, sessionID string, profile domain.RiskProfile) (file *domain.GeneratedFile, err error) {
	defer func() { uc.recorder.RecordRun(ModuleRisk, statusOf(err)) }()

	rep, err := uc.analyze(ctx, sessionID, profile)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := risk.WriteCSV(&buf, *rep); err != nil {
		return nil, fmt.Errorf("write risk csv: %w", err)
	}
	return &domain.GeneratedFile{
		Name:        risk.ReportFileName,
		ContentType: risk.ReportContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (uc *RiskUseCase) analyze(ctx context.Context, sessionID string, profile domain.RiskProfile) (*domain.RiskReport, error) {
	session, err := loadSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	tables, err := uc.tables.LoadRiskTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load risk tables: %w", err)
	}
	rep, err := risk.Analyze(tables, profile)
	if err != nil {
		return nil, err
	}
	if session != nil {
		p := profile
		session.Risk = &p
		if err := saveSession(ctx, uc.sessions, session); err != nil {
			return nil, fmt.Errorf("remember risk profile: %w", err)
		}
	}
	return &rep, nil
}
