package usecase

import (
	"context"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
)

const (
	ModuleConvention = "convention"
	ModuleCoverage   = "coverage"
	ModuleRisk       = "risk"
	ModuleRemodel    = "remodel"

	StatusOK    = "ok"
	StatusError = "error"
)

type noopRecorder struct{}

func (noopRecorder) RecordRun(string, string) {}
func (noopRecorder) RecordExcluded(int)       {}
func (noopRecorder) RecordInvalidDates(int)   {}

func recorderOrNoop(r ports.AnalysisRecorder) ports.AnalysisRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// loadSession returns nil for an empty id so callers without a session
// still work, just without remembered inputs.
func loadSession(ctx context.Context, store ports.SessionStore, id string) (*domain.Session, error) {
	if id == "" || store == nil {
		return nil, nil
	}
	s, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func saveSession(ctx context.Context, store ports.SessionStore, s *domain.Session) error {
	if s == nil || store == nil {
		return nil
	}
	return store.Save(ctx, s)
}
