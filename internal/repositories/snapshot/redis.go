package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rollcall/internal/models"
)

const (
	// defaultKey is the Redis key the snapshot is stored under
	defaultKey = "attendance:snapshot"
)

// ErrSnapshotNotFound is returned when no snapshot has been persisted yet
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Config holds configuration for the Redis snapshot repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Key overrides the Redis key the snapshot is stored under
	Key string
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	key    string
}

// NewRedis creates a new Redis-backed snapshot repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = defaultKey
	}

	return &redisRepository{
		client: cfg.RedisClient,
		key:    key,
	}, nil
}

// Save persists the attendance snapshot to Redis
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Snapshot == nil {
		return errors.New("input and snapshot cannot be nil")
	}

	snapshotJSON, err := json.Marshal(input.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// No expiration; the snapshot is the durable state of the engine
	if err := r.client.Set(ctx, r.key, snapshotJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Load retrieves the most recently saved snapshot from Redis
func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*models.Snapshot, error) {
	snapshotJSON, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
