// Package social holds the in-memory half of the social-graph mutations:
// toggling set membership on follow and like arrays and appending
// comments and replies. Persistence of the mutated documents is the
// caller's responsibility, so the dual-document follow update remains two
// independent writes.
package social

import (
	"errors"
	"strings"
	"time"

	"github.com/wavegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrEmptyText is returned for blank comment or reply text.
	ErrEmptyText = errors.New("text is required")
)

// ToggleFollow flips the follow relation from actor to target, updating
// actor.following and target.followers in memory. Returns true when the
// actor now follows the target.
func ToggleFollow(actor, target *models.User) (bool, error) {
	if actor.ID == target.ID {
		return false, ErrSelfFollow
	}

	if actor.IsFollowing(target.ID) {
		actor.Following = removeID(actor.Following, target.ID)
		target.Followers = removeID(target.Followers, actor.ID)
		return false, nil
	}

	actor.Following = addID(actor.Following, target.ID)
	target.Followers = addID(target.Followers, actor.ID)
	return true, nil
}

// ToggleLike flips userID's membership in the post's likes set. A nil
// likes array is treated as empty. Returns the new membership state and
// the new total.
func ToggleLike(post *models.Post, userID primitive.ObjectID) (liked bool, count int) {
	if post.HasLike(userID) {
		post.Likes = removeID(post.Likes, userID)
		return false, len(post.Likes)
	}
	post.Likes = addID(post.Likes, userID)
	return true, len(post.Likes)
}

// AppendComment appends a comment with a server-assigned id and
// timestamp. Text is trimmed; blank text is rejected.
func AppendComment(post *models.Post, userID primitive.ObjectID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	post.Comments = append(post.Comments, models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      text,
		Replies:   []models.Reply{},
		CreatedAt: time.Now(),
	})
	return &post.Comments[len(post.Comments)-1], nil
}

// AppendReply appends a reply to an embedded comment, same rules as
// AppendComment.
func AppendReply(comment *models.Comment, userID primitive.ObjectID, text string) (*models.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	comment.Replies = append(comment.Replies, models.Reply{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	})
	return &comment.Replies[len(comment.Replies)-1], nil
}

func addID(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func removeID(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, existing := range set {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
