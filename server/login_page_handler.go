package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/delivery-signin/auth"
	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
	"github.com/jrsteele09/delivery-signin/signin"
	"github.com/jrsteele09/delivery-signin/ui"
	"github.com/rs/zerolog/log"
)

// Login form field names
const (
	formFieldIdentifier = "username"
	formFieldPassword   = "password"
	formFieldID         = "form_id"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName    string
	Page       ui.PageState
	Banner     *ui.Presenter
	Action     string // Form target, carrying the page's token and type
	FormID     string // Scopes the double-submit guard to this rendering
	Identifier string // Preserved on failure; the password never is
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.browserSession(w, r)
		rc := signin.FromQuery(r.URL.Query())
		s.renderLogin(w, http.StatusOK, rc, ui.NewPresenter(), "")
	}
}

// LoginSubmissionHandler processes the login form submission (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		rc := signin.FromQuery(r.URL.Query())
		sessionID := s.browserSession(w, r)
		form := signin.Form{
			Identifier: r.PostFormValue(formFieldIdentifier),
			Password:   r.PostFormValue(formFieldPassword),
		}

		out := s.flow.Submit(r.Context(), attemptKey(sessionID, r.PostFormValue(formFieldID)), rc, form, s.sessionState(sessionID))
		if out.Succeeded() {
			redirectSuccess(w, r, out.Redirect.String())
			return
		}

		log.Info().
			Err(out.Err).
			Str("token", rc.Token).
			Str("type", rc.Type).
			Msg("Sign-in rejected")
		s.renderLogin(w, statusForError(out.Err), rc, out.Banner, out.Form.Identifier)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, rc signin.Context, banner *ui.Presenter, identifier string) {
	markup := ui.TemplateMarkup(s.templates[templateLogin])
	data := LoginPageData{
		AppName:    s.config.GetAppName(),
		Page:       s.initializer.Initialize(rc.Token, rc.Type, markup),
		Banner:     banner,
		Action:     loginAction(rc),
		FormID:     uuid.NewString(),
		Identifier: identifier,
	}
	s.renderTemplate(w, templateLogin, status, data)
}

func loginAction(rc signin.Context) string {
	if q := rc.Query(); q != "" {
		return RouteLogin + "?" + q
	}
	return RouteLogin
}

func loginURL(token, roleType string) string {
	return loginAction(signin.Context{Token: token, Type: roleType})
}

// statusForError maps a failed sign-in to the response status
func statusForError(err error) int {
	switch {
	case errors.Is(err, auth.InvalidAccessTokenErr):
		return http.StatusBadRequest
	case errors.Is(err, auth.CredentialMismatchErr):
		return http.StatusUnauthorized
	case errors.Is(err, auth.DatasetUnavailableErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrAttemptInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
