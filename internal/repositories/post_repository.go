package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wavegram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when no post matches the lookup.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByAuthors(ctx context.Context, authors []primitive.ObjectID, limit int64) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error)
	SetLikes(ctx context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error
	SetComments(ctx context.Context, id primitive.ObjectID, comments []models.Comment) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post document
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ObjectID
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthors retrieves posts authored by any of the given users,
// newest first, capped at limit. An empty author set yields no posts.
func (r *MongoPostRepository) GetPostsByAuthors(ctx context.Context, authors []primitive.ObjectID, limit int64) ([]models.Post, error) {
	if len(authors) == 0 {
		return []models.Post{}, nil
	}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": bson.M{"$in": authors}}, findOptions)
}

// GetPostsByUserID retrieves all posts by a single author, newest first.
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, findOptions)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	var posts []models.Post
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// SetLikes replaces the likes array. Read-modify-write: callers load the
// post, toggle membership in memory and write the result back, so
// concurrent toggles on the same post race last-write-wins.
func (r *MongoPostRepository) SetLikes(ctx context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error {
	if likes == nil {
		likes = []primitive.ObjectID{}
	}
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"likes": likes}})
}

// SetComments replaces the comments array, same read-modify-write
// pattern as SetLikes.
func (r *MongoPostRepository) SetComments(ctx context.Context, id primitive.ObjectID, comments []models.Comment) error {
	if comments == nil {
		comments = []models.Comment{}
	}
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"comments": comments}})
}

func (r *MongoPostRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
