package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wavegram/backend/internal/feed"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/session"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HomeHandler serves the home feed with follow suggestions.
type HomeHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	sessions       session.Store
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, sessions session.Store) *HomeHandler {
	return &HomeHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		sessions:       sessions,
	}
}

// RegisterHomeRoutes registers the home feed route
func (h *HomeHandler) RegisterHomeRoutes(g *echo.Group) {
	g.GET("/", h.Home)
}

// Home renders the feed view: posts by followed authors annotated for
// the viewer, plus follow suggestions with justifications.
func (h *HomeHandler) Home(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	posts, err := h.postRepository.GetPostsByAuthors(ctx, user.Following, feed.Limit)
	if err != nil {
		return serverError(c, err, "load feed posts")
	}

	authors, err := h.loadAuthors(c, posts)
	if err != nil {
		return err
	}
	items := feed.Compose(posts, authors, user.ID, time.Now())

	suggestions, err := h.loadSuggestions(c, user)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "index.html", echo.Map{
		"User":        user,
		"Posts":       items,
		"Suggestions": suggestions,
	})
}

func (h *HomeHandler) loadAuthors(c echo.Context, posts []models.Post) (map[primitive.ObjectID]models.UserCompact, error) {
	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), feed.AuthorIDs(posts))
	if err != nil {
		return nil, serverError(c, err, "load feed authors")
	}
	authors := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for _, u := range users {
		authors[u.ID] = u.ToCompact()
	}
	return authors, nil
}

func (h *HomeHandler) loadSuggestions(c echo.Context, user *models.User) ([]feed.Suggestion, error) {
	if len(user.Following) == 0 {
		return []feed.Suggestion{}, nil
	}
	ctx := c.Request().Context()

	followsYou, err := h.userRepository.GetUsersByIDs(ctx, user.Followers)
	if err != nil {
		return nil, serverError(c, err, "load followers")
	}
	followedByFollowed, err := h.userRepository.GetFollowedByAny(ctx, user.Following)
	if err != nil {
		return nil, serverError(c, err, "load second-degree follows")
	}
	followerOfFollowed, err := h.userRepository.GetFollowersOfAny(ctx, user.Following)
	if err != nil {
		return nil, serverError(c, err, "load shared-audience follows")
	}

	return feed.Suggest(user, followsYou, followedByFollowed, followerOfFollowed), nil
}
