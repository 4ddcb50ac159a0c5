package web

import (
	"crypto/sha256"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/collegefest/festadmin/internal/auth"
	"github.com/collegefest/festadmin/internal/service"
	"github.com/collegefest/festadmin/internal/session"
)

// Options carries the transport settings that do not come from the service
// layer.
type Options struct {
	// SessionSecret seeds the CSRF key.
	SessionSecret string
	// SecureCookies marks session and CSRF cookies Secure. Enable behind TLS.
	SecureCookies bool
	// Registry receives HTTP metrics and backs GET /metrics. Nil disables both.
	Registry *prometheus.Registry
}

type Server struct {
	service   *service.FestService
	auth      *auth.Authenticator
	sessions  session.Store
	templates embed.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	csrf      func(http.Handler) http.Handler
	metrics   *httpMetrics
	opts      Options
	logger    *slog.Logger
}

func NewServer(svc *service.FestService, authn *auth.Authenticator, sessions session.Store, tmpl embed.FS, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		service:   svc,
		auth:      authn,
		sessions:  sessions,
		templates: tmpl,
		mux:       http.NewServeMux(),
		opts:      opts,
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"markdown":    renderMarkdown,
			"formatTime":  formatTime,
			"displayDate": displayDate,
		},
	}
	key := sha256.Sum256([]byte(opts.SessionSecret))
	s.csrf = csrf.Protect(key[:],
		csrf.Secure(opts.SecureCookies),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
	)
	if opts.Registry != nil {
		s.metrics = newHTTPMetrics(opts.Registry)
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.route("GET /{$}", http.RedirectHandler("/admin", http.StatusFound))

	s.route("GET /admin/login", s.csrf(http.HandlerFunc(s.handleLoginPage)))
	s.route("POST /admin/login", s.csrf(http.HandlerFunc(s.handleLogin)))
	s.route("GET /admin/logout", http.HandlerFunc(s.handleLogout))

	s.admin("GET /admin", s.handleDashboard)
	s.route("GET /admin/{$}", http.RedirectHandler("/admin", http.StatusFound))
	s.admin("GET /admin/clubs", s.handleListClubs)
	s.admin("POST /admin/clubs", s.handleCreateClub)
	s.admin("POST /admin/clubs/{id}/delete", s.handleDeleteClub)
	s.admin("GET /admin/events", s.handleListEvents)
	s.admin("POST /admin/events", s.handleCreateEvent)
	s.admin("GET /admin/events/{id}/edit", s.handleEditEventPage)
	s.admin("POST /admin/events/{id}/edit", s.handleUpdateEvent)
	s.admin("POST /admin/events/{id}/delete", s.handleDeleteEvent)

	s.route("GET /admin/image/club/{id}", http.HandlerFunc(s.handleClubLogo))
	s.route("GET /admin/image/event/{id}", http.HandlerFunc(s.handleEventPoster))

	if static, err := fs.Sub(s.templates, "static"); err == nil {
		s.route("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	} else {
		s.logger.Error("static assets unavailable", "error", err)
	}
	if s.opts.Registry != nil {
		s.route("GET /metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}
}

// route registers h under pattern, instrumented with the pattern as its label.
func (s *Server) route(pattern string, h http.Handler) {
	if s.metrics != nil {
		h = s.metrics.instrument(pattern, h)
	}
	s.mux.Handle(pattern, h)
}

// admin registers a handler that requires an authenticated session. The
// session check runs before CSRF validation so anonymous requests are sent
// to the login page rather than rejected.
func (s *Server) admin(pattern string, h http.HandlerFunc) {
	s.route(pattern, requireAdmin(s.csrf(h)))
}

func (s *Server) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden", http.StatusForbidden)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger,
		securityHeaders(
			plaintextHTTP(
				s.loadSession(s.mux)))).ServeHTTP(w, r)
}

// HTTPServer returns an http.Server serving s on addr with the timeouts used
// in production.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// renderPage parses and executes a full-page template set. Every page gets
// CSRFField, Authenticated and CurrentPage alongside data.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}

	page := map[string]any{
		"CSRFField":     csrf.TemplateField(r),
		"Authenticated": isAdmin(r),
		"CurrentPage":   "",
	}
	for k, v := range data {
		page[k] = v
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", page)
}
