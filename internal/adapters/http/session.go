package httpadapter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

const (
	sessionCookie = "consult_session"
	sessionHeader = "X-Session-Id"
)

func sessionIDFromRequest(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(sessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// ensureSession resolves the caller's session and starts a new one when the
// request carries none or an expired one.
func (rt *Router) ensureSession(w http.ResponseWriter, r *http.Request) (string, error) {
	if id := sessionIDFromRequest(r); id != "" {
		s, err := rt.svc.Sessions.Resolve(r.Context(), id)
		if err == nil {
			return s.ID, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return "", err
		}
	}
	s, err := rt.svc.Sessions.Start(r.Context())
	if err != nil {
		return "", err
	}
	setSession(w, s.ID)
	return s.ID, nil
}

func setSession(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(sessionHeader, id)
}

func (rt *Router) startSession(w http.ResponseWriter, r *http.Request) {
	s, err := rt.svc.Sessions.Start(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	setSession(w, s.ID)
	writeJSON(w, http.StatusCreated, s)
}

func (rt *Router) resetSession(w http.ResponseWriter, r *http.Request) {
	s, err := rt.svc.Sessions.Reset(r.Context(), sessionIDFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
