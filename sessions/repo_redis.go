package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "signin:session:"

// RedisOptions holds Redis connection values.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[NewRedisClient] unable to reach redis at %s: %w", opts.Addr, err)
	}
	log.Info().Str("addr", opts.Addr).Msg("Connected to redis")
	return client, nil
}

// RedisStore keeps each browser session as a Redis hash that expires after ttl of
// inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("sessionID is required: %w", apperrors.ErrInvalidArgument)
	}

	value, err := s.client.HGet(ctx, redisKey(sessionID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrSessionKeyNotFound
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "[RedisStore Get]")
	}

	s.touch(ctx, sessionID)
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required: %w", apperrors.ErrInvalidArgument)
	}
	if key == "" {
		return fmt.Errorf("key is required: %w", apperrors.ErrInvalidArgument)
	}

	hashKey := redisKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, hashKey, s.ttl)
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrapf(err, "[RedisStore Set]")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID, key string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required: %w", apperrors.ErrInvalidArgument)
	}
	if err := s.client.HDel(ctx, redisKey(sessionID), key).Err(); err != nil {
		return apperrors.Wrapf(err, "[RedisStore Clear]")
	}
	return nil
}

func (s *RedisStore) touch(ctx context.Context, sessionID string) {
	if s.ttl <= 0 {
		return
	}
	if err := s.client.Expire(ctx, redisKey(sessionID), s.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh session expiry")
	}
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}
