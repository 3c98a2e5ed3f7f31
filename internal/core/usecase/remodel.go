package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
	"github.com/kirillkom/insurance-consult-kit/internal/core/remodel"
)

type RemodelUseCase struct {
	taxonomy remodel.Taxonomy
	renderer ports.NarrativeRenderer
	sessions ports.SessionStore
	recorder ports.AnalysisRecorder
}

func NewRemodelUseCase(
	taxonomy remodel.Taxonomy,
	renderer ports.NarrativeRenderer,
	sessions ports.SessionStore,
	recorder ports.AnalysisRecorder,
) *RemodelUseCase {
	return &RemodelUseCase{
		taxonomy: taxonomy,
		renderer: renderer,
		sessions: sessions,
		recorder: recorderOrNoop(recorder),
	}
}

// Form returns the remembered forms. The after form mirrors the before form
// until it is saved on its own.
func (uc *RemodelUseCase) Form(ctx context.Context, sessionID string) (domain.RemodelForm, domain.RemodelForm, error) {
	session, err := loadSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return domain.RemodelForm{}, domain.RemodelForm{}, err
	}
	before := domain.RemodelForm{Items: map[string]domain.CoverageValue{}}
	if session != nil && session.Before != nil {
		before = session.Before.Clone()
	}
	after := before.Clone()
	if session != nil && session.After != nil {
		after = session.After.Clone()
	}
	return before, after, nil
}

func (uc *RemodelUseCase) SaveForm(ctx context.Context, sessionID string, before domain.RemodelForm, after *domain.RemodelForm) error {
	session, err := loadSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrSessionNotFound
	}
	b, a := uc.pair(before, after)
	session.Before, session.After = &b, &a
	return saveSession(ctx, uc.sessions, session)
}

// Compare diffs the supplied forms, falling back to the remembered ones.
func (uc *RemodelUseCase) Compare(ctx context.Context, sessionID string, before, after *domain.RemodelForm) (result *domain.RemodelResult, err error) {
	defer func() { uc.recorder.RecordRun(ModuleRemodel, statusOf(err)) }()

	session, err := loadSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	if before == nil && session != nil {
		before = session.Before
		if after == nil {
			after = session.After
		}
	}
	if before == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compare remodel", fmt.Errorf("before form is required"))
	}

	b, a := uc.pair(*before, after)
	res := remodel.Compare(uc.taxonomy, b, a)
	if res.Summary, err = uc.renderer.Render(ctx, res.Summary); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	if res.Effects, err = uc.renderer.Render(ctx, res.Effects); err != nil {
		return nil, fmt.Errorf("render effects: %w", err)
	}

	if session != nil {
		session.Before, session.After = &b, &a
		if err := saveSession(ctx, uc.sessions, session); err != nil {
			return nil, fmt.Errorf("remember remodel forms: %w", err)
		}
	}
	return &res, nil
}

func (uc *RemodelUseCase) pair(before domain.RemodelForm, after *domain.RemodelForm) (domain.RemodelForm, domain.RemodelForm) {
	b := remodel.Sanitize(uc.taxonomy, before)
	if after == nil {
		return b, b.Clone()
	}
	return b, remodel.Sanitize(uc.taxonomy, *after)
}
