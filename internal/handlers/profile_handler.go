package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wavegram/backend/internal/feed"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/session"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler handles the viewer's own profile pages and edits.
type ProfileHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	sessions       session.Store
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, sessions session.Store) *ProfileHandler {
	return &ProfileHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		sessions:       sessions,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.Profile)
	g.POST("/profile/update", h.UpdateProfile)
	g.POST("/profile/avatar", h.UpdateAvatar)
	g.POST("/profile/avatar/remove", h.RemoveAvatar)
}

// Profile renders the viewer's own profile with their posts.
func (h *ProfileHandler) Profile(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), user.ID)
	if err != nil {
		return serverError(c, err, "load own posts")
	}

	authors := map[primitive.ObjectID]models.UserCompact{user.ID: user.ToCompact()}
	items := feed.Compose(posts, authors, user.ID, time.Now())

	return c.Render(http.StatusOK, "profile.html", echo.Map{
		"User":  user,
		"Posts": items,
	})
}

// UpdateProfile sets name, bio and location. A leading pin emoji on the
// location, added by the profile page widget, is stripped.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	location := strings.TrimPrefix(req.Location, "📍 ")
	if err := h.userRepository.UpdateProfile(c.Request().Context(), user.ID, req.Name, req.Bio, location); err != nil {
		return serverError(c, err, "update profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdateAvatar sets the avatar URI.
func (h *ProfileHandler) UpdateAvatar(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	var req models.UpdateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userRepository.UpdateAvatar(c.Request().Context(), user.ID, req.Avatar); err != nil {
		return serverError(c, err, "update avatar")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RemoveAvatar clears the avatar.
func (h *ProfileHandler) RemoveAvatar(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	if err := h.userRepository.UpdateAvatar(c.Request().Context(), user.ID, ""); err != nil {
		return serverError(c, err, "remove avatar")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
