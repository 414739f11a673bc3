package server

import (
	"net/http"

	"github.com/jrsteele09/delivery-signin/signin"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var apiJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLoginBody = 16 << 10

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	FormID     string `json:"form_id,omitempty"`
}

type loginResponse struct {
	Redirect string `json:"redirect"`
}

type loginErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// APILoginHandler is the JSON variant of the login submission (POST /api/login). Token and
// type are read from the query string like the sign-in page.
func (s *Server) APILoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := apiJSON.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, loginErrorResponse{
				Kind:    "error",
				Message: "Invalid request body.",
				Error:   "invalid_request",
			})
			return
		}

		rc := signin.FromQuery(r.URL.Query())
		sessionID := s.browserSession(w, r)
		form := signin.Form{Identifier: req.Identifier, Password: req.Password}

		out := s.flow.Submit(r.Context(), attemptKey(sessionID, req.FormID), rc, form, s.sessionState(sessionID))
		if out.Succeeded() {
			writeJSON(w, http.StatusOK, loginResponse{Redirect: out.Redirect.String()})
			return
		}

		status := statusForError(out.Err)
		writeJSON(w, status, loginErrorResponse{
			Kind:    string(out.Banner.Kind()),
			Message: out.Banner.Message(),
			Error:   errorCode(status),
		})
	}
}

// PreflightHandler answers OPTIONS once CORS headers have been applied
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_token"
	case http.StatusUnauthorized:
		return "credential_mismatch"
	case http.StatusServiceUnavailable:
		return "dataset_unavailable"
	case http.StatusConflict:
		return "attempt_in_flight"
	default:
		return "server_error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := apiJSON.Marshal(body)
	if err != nil {
		log.Err(err).Msg("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
