package calendar

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/country-calendar/internal/upstream"
)

// RedisStore keeps each calendar as a Redis list of JSON-encoded holidays.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore over an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect parses redisURL, creates a client, and verifies connectivity with a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// key returns the Redis key for the given user. The id is used as is so
// both Store backends agree on calendar identity.
func key(userID string) string {
	return "calendar:" + userID
}

// Append pushes holidays onto the user's list in one MULTI/EXEC so a batch
// is never interleaved with another.
func (s *RedisStore) Append(ctx context.Context, userID string, holidays []upstream.Holiday) error {
	if len(holidays) == 0 {
		return nil
	}

	values := make([]any, 0, len(holidays))
	for _, h := range holidays {
		b, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("marshaling holiday for user %s: %w", userID, err)
		}
		values = append(values, b)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key(userID), values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("appending calendar for user %s: %w", userID, err)
	}

	return nil
}

// List returns the user's calendar in insertion order.
func (s *RedisStore) List(ctx context.Context, userID string) ([]upstream.Holiday, error) {
	vals, err := s.client.LRange(ctx, key(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading calendar for user %s: %w", userID, err)
	}

	events := make([]upstream.Holiday, 0, len(vals))
	for _, v := range vals {
		var h upstream.Holiday
		if err := json.Unmarshal([]byte(v), &h); err != nil {
			return nil, fmt.Errorf("unmarshaling calendar entry for user %s: %w", userID, err)
		}
		events = append(events, h)
	}

	return events, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
