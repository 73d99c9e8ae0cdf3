package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/wavegram/backend/internal/middleware"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/session"
)

// currentUser resolves the authenticated session to its user document.
// A session pointing at a user that no longer resolves is an
// authentication failure, not a server error: the stale session is
// destroyed and the request rejected.
func currentUser(c echo.Context, users repositories.UserRepository, sessions session.Store) (*models.User, error) {
	userID := middleware.UserIDFromContext(c)
	user, err := users.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logrus.WithField("user_id", userID.Hex()).Warn("session references unknown user")
			return nil, middleware.ClearInvalidSession(c, sessions)
		}
		return nil, serverError(c, err, "resolve session user")
	}
	return user, nil
}

// serverError logs the failure detail server-side and returns a generic
// 500 to the client.
func serverError(c echo.Context, err error, msg string) error {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
	}).Error(msg)
	return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
}
