package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/wavegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetFollowedByAny(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetFollowersOfAny(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SearchUsers(ctx context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, bio, location string) error
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) error
	SetFollowing(ctx context.Context, id primitive.ObjectID, following []primitive.ObjectID) error
	SetFollowers(ctx context.Context, id primitive.ObjectID, followers []primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ObjectID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetUserByUsername retrieves a user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves all users whose id is in ids. Order is not
// guaranteed to match the input.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// GetFollowedByAny retrieves users who are followed by at least one of
// the given users, i.e. whose followers array intersects ids.
func (r *MongoUserRepository) GetFollowedByAny(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"followers": bson.M{"$in": ids}}, nil)
}

// GetFollowersOfAny retrieves users who follow at least one of the given
// users, i.e. whose following array intersects ids.
func (r *MongoUserRepository) GetFollowersOfAny(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"following": bson.M{"$in": ids}}, nil)
}

// SearchUsers finds users whose username or name matches the query,
// case-insensitive, excluding the given user.
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{
		"$or": []bson.M{
			{"username": bson.M{"$regex": pattern, "$options": "i"}},
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
		},
		"_id": bson.M{"$ne": exclude},
	}
	return r.find(ctx, filter, options.Find().SetLimit(limit))
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	var users []models.User
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UpdateProfile sets the editable profile fields
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, bio, location string) error {
	update := bson.M{"$set": bson.M{"name": name, "bio": bio, "location": location}}
	return r.updateOne(ctx, id, update)
}

// UpdateAvatar sets the avatar field. An empty avatar clears it.
func (r *MongoUserRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"avatar": avatar}})
}

// SetFollowing replaces the following array. Part of the dual-document
// follow toggle; the matching SetFollowers call on the other user is a
// separate write and may fail independently.
func (r *MongoUserRepository) SetFollowing(ctx context.Context, id primitive.ObjectID, following []primitive.ObjectID) error {
	if following == nil {
		following = []primitive.ObjectID{}
	}
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"following": following}})
}

// SetFollowers replaces the followers array.
func (r *MongoUserRepository) SetFollowers(ctx context.Context, id primitive.ObjectID, followers []primitive.ObjectID) error {
	if followers == nil {
		followers = []primitive.ObjectID{}
	}
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"followers": followers}})
}

func (r *MongoUserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email and username indexes.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
