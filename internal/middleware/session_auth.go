package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/wavegram/backend/internal/session"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CookieName is the client-visible session cookie.
const CookieName = "session_id"

const contextKeyUserID = "userID"

// UserIDFromContext returns the authenticated user id set by
// RequireSession, or NilObjectID if the request is unauthenticated.
func UserIDFromContext(c echo.Context) primitive.ObjectID {
	id, ok := c.Get(contextKeyUserID).(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}

// SessionIDFromContext returns the raw session id for the request.
func SessionIDFromContext(c echo.Context) string {
	id, _ := c.Get("sessionID").(string)
	return id
}

// RequireSession resolves the session cookie to a user id and stores it
// in the request context. Browser requests without a valid session are
// redirected to the sign-in page; API requests get a 401.
func RequireSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return rejectUnauthenticated(c)
			}

			userID, ok := store.GetUserID(c.Request().Context(), cookie.Value)
			if !ok {
				return rejectUnauthenticated(c)
			}

			c.Set(contextKeyUserID, userID)
			c.Set("sessionID", cookie.Value)
			return next(c)
		}
	}
}

// RedirectIfAuthenticated sends signed-in users from the auth pages back
// to the home feed.
func RedirectIfAuthenticated(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
				if _, ok := store.GetUserID(c.Request().Context(), cookie.Value); ok {
					return c.Redirect(http.StatusFound, "/")
				}
			}
			return next(c)
		}
	}
}

// ClearInvalidSession destroys a session whose user no longer resolves
// and sends the browser back to sign-in.
func ClearInvalidSession(c echo.Context, store session.Store) error {
	if id := SessionIDFromContext(c); id != "" {
		_ = store.Delete(c.Request().Context(), id)
	}
	return rejectUnauthenticated(c)
}

// rejectUnauthenticated always returns a non-nil error so callers that
// resolve the session themselves cannot mistake a written redirect for
// success. For browser requests the 302 is already committed by the
// time the error reaches echo, which then skips it.
func rejectUnauthenticated(c echo.Context) error {
	if wantsHTML(c) {
		if err := c.Redirect(http.StatusFound, "/signin"); err != nil {
			return err
		}
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "text/html")
}
