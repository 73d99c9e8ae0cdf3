package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/monitoring"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/session"
	"github.com/wavegram/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler handles follow toggles and follower/following listings.
type FollowHandler struct {
	userRepository repositories.UserRepository
	sessions       session.Store
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository, sessions session.Store) *FollowHandler {
	return &FollowHandler{userRepository: userRepo, sessions: sessions}
}

// RegisterFollowRoutes registers the authenticated follow toggle.
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
}

// RegisterPublicRoutes registers the unauthenticated relation listing.
func (h *FollowHandler) RegisterPublicRoutes(e *echo.Echo) {
	e.GET("/users/:id/:type", h.ListRelations)
}

// ToggleFollow flips the follow relation between the viewer and the
// target user. The two documents are updated by separate writes; if the
// second fails after the first succeeds the graph is left asymmetric.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	actor, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if targetID == actor.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return serverError(c, err, "load follow target")
	}

	following, err := social.ToggleFollow(actor, target)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if err := h.userRepository.SetFollowing(ctx, actor.ID, actor.Following); err != nil {
		return serverError(c, err, "save following")
	}
	if err := h.userRepository.SetFollowers(ctx, target.ID, target.Followers); err != nil {
		// First write already landed; the graph is asymmetric until the
		// next toggle. Tolerated, no reconciliation.
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor":  actor.ID.Hex(),
			"target": target.ID.Hex(),
		}).Error("follow back-reference write failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	monitoring.FollowToggles.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": following})
}

// ListRelations returns a user's followers or following as compact
// users. This endpoint is public.
func (h *FollowHandler) ListRelations(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	relation := c.Param("type")
	if relation != "followers" && relation != "following" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid type")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return serverError(c, err, "load user relations")
	}

	ids := user.Followers
	if relation == "following" {
		ids = user.Following
	}

	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), ids)
	if err != nil {
		return serverError(c, err, "load related users")
	}

	compacts := make([]models.UserCompact, 0, len(users))
	for _, u := range users {
		compacts = append(compacts, u.ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": compacts})
}
