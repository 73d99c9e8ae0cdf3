package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/monitoring"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/session"
	"github.com/wavegram/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles post creation and the like/comment/reply routes.
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	sessions       session.Store
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, sessions session.Store) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		sessions:       sessions,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/create-post", h.CreatePostPage)
	g.POST("/create-post", h.CreatePost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.GET("/posts/:id/likes", h.GetLikes)
	g.GET("/posts/:id/comments", h.GetComments)
	g.POST("/posts/:id/comment", h.AddComment)
	g.POST("/posts/:postId/comments/:commentId/reply", h.AddReply)
}

// CreatePostPage renders the post creation form
func (h *PostHandler) CreatePostPage(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "create-post.html", echo.Map{"User": user})
}

// CreatePost creates a post. A post needs a caption, an image, or both.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	caption := strings.TrimSpace(req.Caption)
	if caption == "" && req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post must have caption or image")
	}

	post := &models.Post{
		UserID:  user.ID,
		Caption: caption,
		Image:   req.Image,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return serverError(c, err, "create post")
	}

	monitoring.PostsCreated.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ToggleLike flips the viewer's like on a post and returns the new
// state. The likes array is written back whole (read-modify-write).
func (h *PostHandler) ToggleLike(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	post, err := h.loadPost(c, c.Param("id"))
	if err != nil {
		return err
	}

	liked, count := social.ToggleLike(post, user.ID)
	if err := h.postRepository.SetLikes(c.Request().Context(), post.ID, post.Likes); err != nil {
		return serverError(c, err, "save likes")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "likes": count, "liked": liked})
}

// GetLikes lists the users who liked a post.
func (h *PostHandler) GetLikes(c echo.Context) error {
	post, err := h.loadPost(c, c.Param("id"))
	if err != nil {
		return err
	}

	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), post.Likes)
	if err != nil {
		return serverError(c, err, "load likers")
	}

	compacts := make([]models.UserCompact, 0, len(users))
	for _, u := range users {
		compacts = append(compacts, u.ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": compacts})
}

// commentView is a comment with author info resolved, as returned by the
// comments endpoints.
type commentView struct {
	ID        primitive.ObjectID `json:"id"`
	Text      string             `json:"text"`
	User      models.UserCompact `json:"user"`
	CreatedAt time.Time          `json:"created_at"`
	Replies   []replyView        `json:"replies,omitempty"`
}

type replyView struct {
	ID        primitive.ObjectID `json:"id"`
	Text      string             `json:"text"`
	User      models.UserCompact `json:"user"`
	CreatedAt time.Time          `json:"created_at"`
}

// GetComments lists a post's comments with their replies, authors
// resolved to compact user info.
func (h *PostHandler) GetComments(c echo.Context) error {
	post, err := h.loadPost(c, c.Param("id"))
	if err != nil {
		return err
	}

	authors, err := h.commentAuthors(c, post)
	if err != nil {
		return err
	}

	comments := make([]commentView, 0, len(post.Comments))
	for _, comment := range post.Comments {
		view := commentView{
			ID:        comment.ID,
			Text:      comment.Text,
			User:      authors[comment.UserID],
			CreatedAt: comment.CreatedAt,
			Replies:   make([]replyView, 0, len(comment.Replies)),
		}
		for _, reply := range comment.Replies {
			view.Replies = append(view.Replies, replyView{
				ID:        reply.ID,
				Text:      reply.Text,
				User:      authors[reply.UserID],
				CreatedAt: reply.CreatedAt,
			})
		}
		comments = append(comments, view)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "comments": comments})
}

// AddComment appends a comment to a post.
func (h *PostHandler) AddComment(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.loadPost(c, c.Param("id"))
	if err != nil {
		return err
	}

	comment, err := social.AppendComment(post, user.ID, req.Text)
	if err != nil {
		if errors.Is(err, social.ErrEmptyText) {
			return echo.NewHTTPError(http.StatusBadRequest, "Comment text is required")
		}
		return serverError(c, err, "append comment")
	}

	if err := h.postRepository.SetComments(c.Request().Context(), post.ID, post.Comments); err != nil {
		return serverError(c, err, "save comments")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"comment": commentView{
			ID:        comment.ID,
			Text:      comment.Text,
			User:      user.ToCompact(),
			CreatedAt: comment.CreatedAt,
		},
		"totalComments": len(post.Comments),
	})
}

// AddReply appends a reply to an embedded comment.
func (h *PostHandler) AddReply(c echo.Context) error {
	user, err := currentUser(c, h.userRepository, h.sessions)
	if err != nil {
		return err
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.loadPost(c, c.Param("postId"))
	if err != nil {
		return err
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	comment := post.FindComment(commentID)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	reply, err := social.AppendReply(comment, user.ID, req.Text)
	if err != nil {
		if errors.Is(err, social.ErrEmptyText) {
			return echo.NewHTTPError(http.StatusBadRequest, "Reply text is required")
		}
		return serverError(c, err, "append reply")
	}

	if err := h.postRepository.SetComments(c.Request().Context(), post.ID, post.Comments); err != nil {
		return serverError(c, err, "save comments")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"reply": replyView{
			ID:        reply.ID,
			Text:      reply.Text,
			User:      user.ToCompact(),
			CreatedAt: reply.CreatedAt,
		},
	})
}

func (h *PostHandler) loadPost(c echo.Context, rawID string) (*models.Post, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return nil, serverError(c, err, "load post")
	}
	return post, nil
}

func (h *PostHandler) commentAuthors(c echo.Context, post *models.Post) (map[primitive.ObjectID]models.UserCompact, error) {
	seen := make(map[primitive.ObjectID]bool)
	ids := []primitive.ObjectID{}
	for _, comment := range post.Comments {
		if !seen[comment.UserID] {
			seen[comment.UserID] = true
			ids = append(ids, comment.UserID)
		}
		for _, reply := range comment.Replies {
			if !seen[reply.UserID] {
				seen[reply.UserID] = true
				ids = append(ids, reply.UserID)
			}
		}
	}

	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, serverError(c, err, "load comment authors")
	}
	authors := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for _, u := range users {
		authors[u.ID] = u.ToCompact()
	}
	return authors, nil
}
