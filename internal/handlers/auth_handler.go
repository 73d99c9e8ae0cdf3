package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/wavegram/backend/internal/middleware"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/monitoring"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       session.Store
	sessionTTL     time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, sessions session.Store, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		sessionTTL:     sessionTTL,
	}
}

// RegisterAuthRoutes registers the unauthenticated routes. The page
// routes redirect signed-in users back to the feed.
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	pages := e.Group("", middleware.RedirectIfAuthenticated(h.sessions))
	pages.GET("/signin", h.SigninPage)
	pages.GET("/signup", h.SignupPage)

	e.POST("/signup", h.Signup)
	e.POST("/signin", h.Signin)
}

// RegisterSessionRoutes registers the session-authenticated routes.
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/signout", h.Signout)
}

// SigninPage renders the sign-in form
func (h *AuthHandler) SigninPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signin.html", nil)
}

// SignupPage renders the sign-up form
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", nil)
}

// Signup creates an account and signs the new user in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if _, err := h.userRepository.GetUserByEmail(ctx, email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already exists")
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return serverError(c, err, "signup email lookup")
	}

	if _, err := h.userRepository.GetUserByUsername(ctx, username); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already taken")
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return serverError(c, err, "signup username lookup")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c, err, "hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
		Username: username,
		Avatar:   models.DefaultAvatar,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return serverError(c, err, "create user")
	}

	monitoring.SignupsTotal.Inc()
	logrus.WithField("username", username).Info("user signed up")

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "redirect": "/"})
}

// Signin authenticates by email and password.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			monitoring.SigninFailures.WithLabelValues("unknown_email").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		}
		return serverError(c, err, "signin lookup")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		monitoring.SigninFailures.WithLabelValues("bad_password").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "redirect": "/"})
}

// Signout destroys the current session. Destruction is best-effort: on
// failure the client keeps its cookie and gets a 500.
func (h *AuthHandler) Signout(c echo.Context) error {
	cookie, err := c.Cookie(middleware.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(c.Request().Context(), cookie.Value); err != nil {
			logrus.WithError(err).Error("failed to destroy session")
			return echo.NewHTTPError(http.StatusInternalServerError, "Could not sign out")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "redirect": "/signin"})
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	id, err := h.sessions.Create(c.Request().Context(), user.ID)
	if err != nil {
		return serverError(c, err, "create session")
	}
	monitoring.SessionsCreated.Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
	})
	return nil
}
