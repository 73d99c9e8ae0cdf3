package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAvatar is applied at sign-up until the user uploads their own.
const DefaultAvatar = "https://images.unsplash.com/photo-1494790108755-2616c9ca8a66?w=150&h=150&fit=crop&crop=face"

// User represents an account document in the users collection. The
// followers and following arrays hold user ids only; neither contains
// duplicates or the owner's own id.
type User struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name"`
	Email     string               `json:"email" bson:"email"`
	Password  string               `json:"-" bson:"password"`
	Username  string               `json:"username" bson:"username"`
	Bio       string               `json:"bio" bson:"bio"`
	Location  string               `json:"location" bson:"location"`
	Avatar    string               `json:"avatar" bson:"avatar"`
	Followers []primitive.ObjectID `json:"followers" bson:"followers"`
	Following []primitive.ObjectID `json:"following" bson:"following"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// UserCompact is the public slice of a user embedded in lists and
// annotated posts.
type UserCompact struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	Username string             `json:"username" bson:"username"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}

// ToCompact strips a user down to its public fields.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

// IsFollowing reports whether id is in the user's following set.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// SignupRequest defines the request body for account creation.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
}

// SigninRequest defines the request body for authentication.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Bio      string `json:"bio" validate:"max=300"`
	Location string `json:"location" validate:"max=100"`
}

// UpdateAvatarRequest defines the request body for avatar changes.
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,url"`
}
