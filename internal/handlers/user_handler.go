package handlers

import (
	"errors"
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

const searchLimit = 10

// UserHandler handles user search and public profile pages.
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	sessions       session.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, sessions session.Store) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		sessions:       sessions,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/api/search", h.Search)
	g.GET("/user/:username", h.UserProfile)
}

// searchResult is the public slice of a user returned by search.
type searchResult struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Name     string             `json:"name"`
	Avatar   string             `json:"avatar"`
	Bio      string             `json:"bio"`
}

// Search finds users by username or name, case-insensitive, excluding
// the viewer. A blank query returns an empty list.
func (h *UserHandler) Search(c echo.Context) error {
	viewer, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"users": []searchResult{}})
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, viewer.ID, searchLimit)
	if err != nil {
		return serverError(c, err, "search users")
	}

	results := make([]searchResult, 0, len(users))
	for _, u := range users {
		results = append(results, searchResult{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Avatar:   u.Avatar,
			Bio:      u.Bio,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": results})
}

// UserProfile renders another user's profile with their posts annotated
// for the viewer.
func (h *UserHandler) UserProfile(c echo.Context) error {
	viewer, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	profileUser, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return serverError(c, err, "load profile user")
	}

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), profileUser.ID)
	if err != nil {
		return serverError(c, err, "load profile posts")
	}

	authors := map[primitive.ObjectID]models.UserCompact{profileUser.ID: profileUser.ToCompact()}
	items := feed.Compose(posts, authors, viewer.ID, time.Now())

	return c.Render(http.StatusOK, "user-profile.html", echo.Map{
		"ProfileUser": profileUser,
		"CurrentUser": viewer,
		"IsFollowing": viewer.IsFollowing(profileUser.ID),
		"Posts":       items,
	})
}
