package server

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/jrsteele09/delivery-signin/internal/config"
	"github.com/jrsteele09/delivery-signin/sessions"
	"github.com/jrsteele09/delivery-signin/signin"
	"github.com/jrsteele09/delivery-signin/ui"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	flow        *signin.Flow
	store       sessions.Store
	datasets    fs.FS // Served under /datasets, may be nil
	initializer *ui.Initializer
	limiter     *loginLimiter
	templates   map[string]*template.Template
}

// New builds the sign-in server. datasetFS, when set, is published under /datasets so an
// HTTP dataset source can fetch the credential files from this server.
func New(config config.Config, flow *signin.Flow, store sessions.Store, datasetFS fs.FS) (*Server, error) {
	if flow == nil {
		return nil, errors.New("[Server New] sign-in flow is required")
	}
	if store == nil {
		return nil, errors.New("[Server New] session store is required")
	}

	templates, err := parseTemplates(templateIndex, templateLogin, templateDashboard)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:         config.GetEnv(),
		mux:         http.NewServeMux(),
		config:      config,
		flow:        flow,
		store:       store,
		datasets:    datasetFS,
		initializer: ui.NewInitializer(config.GetSignupURL()),
		templates:   templates,
	}
	if config.GetEnableRateLimiting() {
		s.limiter = newLoginLimiter(config.GetLoginAttemptsPerMinute(), config.GetLoginBurst())
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
