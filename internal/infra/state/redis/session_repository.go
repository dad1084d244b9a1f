// Package redisstate implements the volatile session state on Redis.
package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSessionRepository is the Redis implementation of
// repository.SessionRepository. The verified-room set of a user is a Redis SET
// whose TTL tracks the session lifetime; every write refreshes the TTL so the
// set lives as long as the session stays in use.
type RedisSessionRepository struct {
	client     *redis.Client
	keyPrefix  string
	sessionTTL time.Duration
}

// NewRedisSessionRepository creates a RedisSessionRepository.
func NewRedisSessionRepository(client *redis.Client, keyPrefix string, sessionTTL time.Duration) *RedisSessionRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisSessionRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "bv:"
	}
	if sessionTTL <= 0 {
		sessionTTL = 72 * time.Hour
	}
	return &RedisSessionRepository{
		client:     client,
		keyPrefix:  keyPrefix,
		sessionTTL: sessionTTL,
	}
}

func (r *RedisSessionRepository) verifiedRoomsKey(userID uint) string {
	return fmt.Sprintf("%ssession:%d:rooms", r.keyPrefix, userID)
}

// AddVerifiedRoom adds roomID to the user's verified-room set. SADD is a
// no-op for members already present, which gives the required idempotence.
func (r *RedisSessionRepository) AddVerifiedRoom(ctx context.Context, userID uint, roomID string) error {
	key := r.verifiedRoomsKey(userID)
	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, key, roomID)
	pipe.Expire(ctx, key, r.sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: add verified room '%s' for user %d: %w", roomID, userID, err)
	}
	return nil
}

func (r *RedisSessionRepository) IsRoomVerified(ctx context.Context, userID uint, roomID string) (bool, error) {
	verified, err := r.client.SIsMember(ctx, r.verifiedRoomsKey(userID), roomID).Result()
	if err != nil {
		return false, fmt.Errorf("redis: check verified room '%s' for user %d: %w", roomID, userID, err)
	}
	return verified, nil
}

func (r *RedisSessionRepository) VerifiedRooms(ctx context.Context, userID uint) ([]string, error) {
	rooms, err := r.client.SMembers(ctx, r.verifiedRoomsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list verified rooms for user %d: %w", userID, err)
	}
	return rooms, nil
}

func (r *RedisSessionRepository) ClearSession(ctx context.Context, userID uint) error {
	if err := r.client.Del(ctx, r.verifiedRoomsKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis: clear session for user %d: %w", userID, err)
	}
	return nil
}
