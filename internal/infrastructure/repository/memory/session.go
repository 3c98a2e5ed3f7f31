// Package memory keeps per-session form state in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

// SessionRepository expires sessions idle longer than ttl. A zero ttl
// keeps sessions until deleted.
type SessionRepository struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func NewSessionRepository(ttl time.Duration, now func() time.Time) *SessionRepository {
	if now == nil {
		now = time.Now
	}
	return &SessionRepository{
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*domain.Session),
	}
}

func (r *SessionRepository) Create(ctx context.Context) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	s := &domain.Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)
	r.sessions[s.ID] = s
	return s.Clone(), nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if r.expired(s, r.now()) {
		delete(r.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "save session", domain.ErrSessionNotFound)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	stored := session.Clone()
	stored.UpdatedAt = r.now().UTC()
	r.sessions[session.ID] = stored
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRepository) expired(s *domain.Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.UpdatedAt) > r.ttl
}

func (r *SessionRepository) sweepLocked(now time.Time) {
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
		}
	}
}
