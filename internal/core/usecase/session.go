package usecase

import (
	"context"
	"time"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
)

type SessionUseCase struct {
	store ports.SessionStore
	now   func() time.Time
}

func NewSessionUseCase(store ports.SessionStore, now func() time.Time) *SessionUseCase {
	if now == nil {
		now = time.Now
	}
	return &SessionUseCase{store: store, now: now}
}

func (uc *SessionUseCase) Start(ctx context.Context) (*domain.Session, error) {
	return uc.store.Create(ctx)
}

func (uc *SessionUseCase) Resolve(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	return uc.store.Get(ctx, id)
}

// Reset forgets every remembered input but keeps the session id.
func (uc *SessionUseCase) Reset(ctx context.Context, id string) (*domain.Session, error) {
	s, err := uc.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Reset(uc.now().UTC())
	if err := uc.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
