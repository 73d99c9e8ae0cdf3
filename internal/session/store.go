package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const keyPrefix = "session:"

// Store maps opaque session ids to user ids.
type Store interface {
	Create(ctx context.Context, userID primitive.ObjectID) (string, error)
	GetUserID(ctx context.Context, sessionID string) (primitive.ObjectID, bool)
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore manages sessions in Redis with a fixed TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a new Redis-backed session store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Create stores a new session for the given user and returns its id.
func (s *RedisStore) Create(ctx context.Context, userID primitive.ObjectID) (string, error) {
	id := uuid.NewString()
	key := keyPrefix + id
	if err := s.rdb.Set(ctx, key, userID.Hex(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// GetUserID resolves a session id to the user it belongs to. The second
// return value is false for missing, expired or corrupt sessions.
func (s *RedisStore) GetUserID(ctx context.Context, sessionID string) (primitive.ObjectID, bool) {
	val, err := s.rdb.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(val)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userID, true
}

// Delete removes a session by id.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, keyPrefix+sessionID).Err()
}
