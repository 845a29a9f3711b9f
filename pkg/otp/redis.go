package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "otp:"

// RedisStore stores codes in Redis with native TTL-based expiry, for
// deployments where more than one instance serves logins.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed code store from a redis URL
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(email string) string {
	return redisKeyPrefix + NormalizeEmail(email)
}

// Issue generates and stores a fresh code, overwriting any prior entry.
// The redis SET both replaces the value and resets the TTL, so same-email
// races resolve last-writer-wins.
func (s *RedisStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	entry := Entry{Code: code, ExpiresAt: time.Now().Add(s.ttl)}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entry: %w", err)
	}

	if err := s.client.Set(ctx, s.key(email), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set failed: %w", err)
	}
	return code, nil
}

// Lookup returns the stored entry or ErrNoCode. Redis expires entries
// natively, so an expired entry reads back as absent.
func (s *RedisStore) Lookup(ctx context.Context, email string) (*Entry, error) {
	data, err := s.client.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return nil, ErrNoCode
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		// Corrupt data is as good as absent; drop it.
		s.client.Del(ctx, s.key(email))
		return nil, ErrNoCode
	}
	return &entry, nil
}

// Consume deletes the entry unconditionally
func (s *RedisStore) Consume(ctx context.Context, email string) error {
	return s.client.Del(ctx, s.key(email)).Err()
}
