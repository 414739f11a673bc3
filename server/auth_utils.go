package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/delivery-signin/sessions"
)

// browserSessionCookie names the storage partition of one browser session. It has no
// Max-Age so it ends with the browser session, and it carries no authentication meaning.
const browserSessionCookie = "signin_session"

// browserSession returns the caller's session id, issuing a new one when absent.
func (s *Server) browserSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := browserSessionID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     browserSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func browserSessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(browserSessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (s *Server) sessionState(sessionID string) sessions.State {
	return sessions.Bind(s.store, sessionID)
}

// attemptKey scopes the double-submit guard to one rendered form in one browser session
func attemptKey(sessionID, formID string) string {
	if _, err := uuid.Parse(formID); err != nil {
		return sessionID
	}
	return sessionID + "/" + formID
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
