package feed

import (
	"time"

	"github.com/wavegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Limit is the maximum number of posts in the home feed. Profile pages
// render all of a user's posts and do not use it.
const Limit = 20

// Item is a post annotated with viewer-relative state for rendering.
type Item struct {
	models.Post
	Author        models.UserCompact `json:"author"`
	LikesCount    int                `json:"likesCount"`
	CommentsCount int                `json:"commentsCount"`
	Liked         bool               `json:"liked"`
	Timestamp     string             `json:"timestamp"`
}

// Compose annotates posts for the given viewer. The posts are expected
// newest first; any size cap belongs to the query that produced them.
// Compose is read-only.
func Compose(posts []models.Post, authors map[primitive.ObjectID]models.UserCompact, viewerID primitive.ObjectID, now time.Time) []Item {
	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, Item{
			Post:          p,
			Author:        authors[p.UserID],
			LikesCount:    len(p.Likes),
			CommentsCount: len(p.Comments),
			Liked:         p.HasLike(viewerID),
			Timestamp:     RelativeAge(p.CreatedAt, now),
		})
	}
	return items
}

// AuthorIDs collects the distinct author ids of posts, preserving
// first-seen order.
func AuthorIDs(posts []models.Post) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(posts))
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	return ids
}
