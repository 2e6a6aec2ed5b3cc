package httpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/flashgate/internal/adapter/metrics"
	"github.com/pscheid92/flashgate/internal/platform/config"
	"github.com/pscheid92/flashgate/web"
)

// ErrEndpointNotFound is returned when a route name cannot be resolved to a path.
var ErrEndpointNotFound = errors.New("endpoint not registered")

type Server struct {
	echo   *echo.Echo
	config *config.Config
	clock  clockwork.Clock

	templates    *template.Template
	sessionStore *sessions.CookieStore

	registry     *prometheus.Registry
	httpMetrics  *metrics.HTTPMetrics
	flashMetrics *metrics.FlashMetrics

	healthChecks []HealthCheck
	startTime    time.Time

	// registerPath is the resolved location of the "register" endpoint.
	registerPath string
}

// Option configures optional collaborators of the server.
type Option func(*Server)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithMetrics records HTTP and flash metrics on reg and serves it on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
		s.httpMetrics = metrics.NewHTTPMetrics(reg)
		s.flashMetrics = metrics.NewFlashMetrics(reg)
	}
}

func WithHealthChecks(checks ...HealthCheck) Option {
	return func(s *Server) {
		s.healthChecks = append(s.healthChecks, checks...)
	}
}

func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	srv := &Server{
		echo:         newEcho(),
		config:       cfg,
		clock:        clockwork.NewRealClock(),
		templates:    templates,
		sessionStore: setupSessionStore(cfg),
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.startTime = srv.clock.Now()

	srv.registerRoutes()

	if err := srv.resolveEndpoints(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// URLFor resolves a named route to its path.
func (s *Server) URLFor(name string, params ...any) (string, error) {
	path := s.echo.Reverse(name, params...)
	if path == "" {
		return "", fmt.Errorf("%w: %q", ErrEndpointNotFound, name)
	}
	return path, nil
}

// resolveEndpoints looks up every redirect target once, so a missing route
// fails at startup rather than on the first request.
func (s *Server) resolveEndpoints() error {
	path, err := s.URLFor(routeRegister)
	if err != nil {
		return fmt.Errorf("failed to resolve redirect target: %w", err)
	}
	s.registerPath = path
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

// newEcho builds the router. Client addresses come from the TCP peer only;
// X-Forwarded-For and X-Real-IP are not trusted.
func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = echo.ExtractIPDirect()
	return e
}

func setupSessionStore(cfg *config.Config) *sessions.CookieStore {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return sessionStore
}
