package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository for handler tests.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) add(u models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Followers == nil {
		u.Followers = []primitive.ObjectID{}
	}
	if u.Following == nil {
		u.Following = []primitive.ObjectID{}
	}
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetFollowedByAny(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return f.scan(func(u *models.User) bool { return intersects(u.Followers, ids) }), nil
}

func (f *fakeUserRepo) GetFollowersOfAny(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return f.scan(func(u *models.User) bool { return intersects(u.Following, ids) }), nil
}

func (f *fakeUserRepo) SearchUsers(_ context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	q := strings.ToLower(query)
	out := f.scan(func(u *models.User) bool {
		if u.ID == exclude {
			return false
		}
		return strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Name), q)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, name, bio, location string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Name, u.Bio, u.Location = name, bio, location
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, id primitive.ObjectID, avatar string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Avatar = avatar
	return nil
}

func (f *fakeUserRepo) SetFollowing(_ context.Context, id primitive.ObjectID, following []primitive.ObjectID) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Following = append([]primitive.ObjectID{}, following...)
	return nil
}

func (f *fakeUserRepo) SetFollowers(_ context.Context, id primitive.ObjectID, followers []primitive.ObjectID) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Followers = append([]primitive.ObjectID{}, followers...)
	return nil
}

func (f *fakeUserRepo) scan(match func(*models.User) bool) []models.User {
	out := []models.User{}
	for _, u := range f.users {
		if match(u) {
			out = append(out, *u)
		}
	}
	return out
}

func intersects(set, ids []primitive.ObjectID) bool {
	for _, a := range set {
		for _, b := range ids {
			if a == b {
				return true
			}
		}
	}
	return false
}

// fakePostRepo is an in-memory PostRepository for handler tests.
type fakePostRepo struct {
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (f *fakePostRepo) add(p models.Post) *models.Post {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Likes == nil {
		p.Likes = []primitive.ObjectID{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	f.posts[p.ID] = &p
	return &p
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		cp := *p
		cp.Likes = append([]primitive.ObjectID{}, p.Likes...)
		cp.Comments = append([]models.Comment{}, p.Comments...)
		return &cp, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (f *fakePostRepo) GetPostsByAuthors(_ context.Context, authors []primitive.ObjectID, limit int64) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range f.posts {
		for _, a := range authors {
			if p.UserID == a {
				out = append(out, *p)
				break
			}
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePostRepo) GetPostsByUserID(_ context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) SetLikes(_ context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error {
	p, ok := f.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Likes = append([]primitive.ObjectID{}, likes...)
	return nil
}

func (f *fakePostRepo) SetComments(_ context.Context, id primitive.ObjectID, comments []models.Comment) error {
	p, ok := f.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Comments = append([]models.Comment{}, comments...)
	return nil
}

// fakeSessionStore is an in-memory session.Store.
type fakeSessionStore struct {
	sessions map[string]primitive.ObjectID
	failing  bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]primitive.ObjectID)}
}

func (f *fakeSessionStore) Create(_ context.Context, userID primitive.ObjectID) (string, error) {
	id := uuid.NewString()
	f.sessions[id] = userID
	return id, nil
}

func (f *fakeSessionStore) GetUserID(_ context.Context, sessionID string) (primitive.ObjectID, bool) {
	id, ok := f.sessions[sessionID]
	return id, ok
}

func (f *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	if f.failing {
		return context.DeadlineExceeded
	}
	delete(f.sessions, sessionID)
	return nil
}
