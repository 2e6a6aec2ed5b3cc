package httpserver

import (
	"log/slog"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/flashgate/internal/platform/errors"
)

const sessionName = "flashgate-session"

// loadSession returns the caller's session. A cookie that fails
// verification is discarded and replaced by an empty session.
func (s *Server) loadSession(c echo.Context) *sessions.Session {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "Discarding invalid session cookie", "error", err)
		s.flashMetrics.RecordSessionError("load")
		session.Values = make(map[any]any)
		session.IsNew = true
	}
	return session
}

func (s *Server) saveSession(c echo.Context, session *sessions.Session) error {
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		s.flashMetrics.RecordSessionError("save")
		return apperrors.InternalError("failed to save session", err)
	}
	return nil
}
