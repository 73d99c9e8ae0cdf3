package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post document in the posts collection. Comments and
// replies are embedded and exclusively owned by the post; likes is a
// reference set of user ids. Posts are never edited or deleted.
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `json:"user_id" bson:"user_id"`
	Caption   string               `json:"caption" bson:"caption"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// Comment is embedded in a post, ordered by insertion.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Reply is embedded in a comment, ordered by insertion.
type Reply struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// HasLike reports whether userID is in the post's likes set.
func (p *Post) HasLike(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// FindComment returns a pointer to the embedded comment with the given
// id, or nil if none exists.
func (p *Post) FindComment(id primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// CreatePostRequest defines the request body for creating a post. The
// caption/image emptiness rule is checked in the handler because either
// field alone is enough.
type CreatePostRequest struct {
	Caption string `json:"caption" validate:"max=2200"`
	Image   string `json:"image" validate:"omitempty"`
}

// CommentRequest defines the request body for comments and replies.
type CommentRequest struct {
	Text string `json:"text"`
}
