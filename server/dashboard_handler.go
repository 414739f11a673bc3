package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
	"github.com/jrsteele09/delivery-signin/sessions"
	"github.com/rs/zerolog/log"
)

// DashboardPageData contains data for rendering the dashboard summary
type DashboardPageData struct {
	AppName    string
	Name       string
	Category   string
	Type       string
	Identifier string
	Token      string
}

// DashboardHandler shows who is signed in for this browser session (GET /dashboard).
// Callers without a published session are sent back to the home page.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := browserSessionID(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		session, err := sessions.Read(r.Context(), s.sessionState(sessionID))
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Err(err).Msg("Failed to read session")
			http.Error(w, "Failed to read session", http.StatusInternalServerError)
			return
		}

		q := r.URL.Query()
		data := DashboardPageData{
			AppName:    s.config.GetAppName(),
			Name:       session.Name(),
			Category:   session.Category,
			Type:       session.Type,
			Identifier: q.Get("id"),
			Token:      session.Token,
		}
		s.renderTemplate(w, templateDashboard, http.StatusOK, data)
	}
}
