package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/flashgate/internal/flash"
)

// Route names resolvable through URLFor.
const (
	routeRoot     = "root"
	routeRegister = "register"
)

const redirectNotice = "You are being redirected to the registration page."

type registerPage struct {
	Flashes []flash.Flash
}

// noteRedirect appends the redirect notice to session and returns the notice
// together with the redirect target. It performs no I/O.
func (s *Server) noteRedirect(session *sessions.Session) (flash.Flash, string) {
	notice := flash.Info(redirectNotice)
	flash.Add(session, notice)
	return notice, s.registerPath
}

func (s *Server) handleRoot(c echo.Context) error {
	session := s.loadSession(c)

	notice, location := s.noteRedirect(session)
	if err := s.saveSession(c, session); err != nil {
		return err
	}
	s.flashMetrics.RecordRaised(string(notice.Category))

	slog.DebugContext(c.Request().Context(), "Redirecting to registration", "location", location)

	if err := c.Redirect(http.StatusFound, location); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// handleRegister shows pending flashes once and clears them from the session.
func (s *Server) handleRegister(c echo.Context) error {
	session := s.loadSession(c)

	flashes := flash.Drain(session)
	if len(flashes) > 0 {
		if err := s.saveSession(c, session); err != nil {
			return err
		}
		s.flashMetrics.RecordDrained(len(flashes))
	}

	return s.renderTemplate(c, "register.html", registerPage{Flashes: flashes})
}
