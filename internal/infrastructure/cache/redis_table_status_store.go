package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/shared"
)

// RedisTableStatusStore implements TableStatusStore using Redis.
// Table occupancy is shared state across server instances and waiter
// terminals, so it lives in Redis rather than in process memory.
type RedisTableStatusStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTableStatusStore creates a new Redis-based table status store
func NewRedisTableStatusStore(cfg RedisConfig) (*RedisTableStatusStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTableStatusStore{
		client:    client,
		keyPrefix: "table:status:",
	}, nil
}

// NewRedisTableStatusStoreWithClient creates a store with an existing Redis client
func NewRedisTableStatusStoreWithClient(client *redis.Client, keyPrefix string) *RedisTableStatusStore {
	if keyPrefix == "" {
		keyPrefix = "table:status:"
	}
	return &RedisTableStatusStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Occupy marks a table as occupied by an order. Occupying a table already
// held by the same order is a no-op; a different order gets TABLE_OCCUPIED.
// Keys have no TTL: a table stays occupied until its order closes.
func (s *RedisTableStatusStore) Occupy(ctx context.Context, tableID, orderID uuid.UUID) error {
	key := s.keyPrefix + tableID.String()

	set, err := s.client.SetNX(ctx, key, orderID.String(), 0).Result()
	if err != nil {
		return fmt.Errorf("failed to occupy table: %w", err)
	}
	if set {
		return nil
	}

	current, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to read table status: %w", err)
	}
	if current == orderID.String() {
		return nil
	}
	return shared.ErrTableOccupied
}

// Free releases a table. Freeing an already free table is a no-op.
func (s *RedisTableStatusStore) Free(ctx context.Context, tableID uuid.UUID) error {
	key := s.keyPrefix + tableID.String()
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to free table: %w", err)
	}
	return nil
}

// OccupiedBy returns the order currently holding a table, if any
func (s *RedisTableStatusStore) OccupiedBy(ctx context.Context, tableID uuid.UUID) (uuid.UUID, bool, error) {
	key := s.keyPrefix + tableID.String()

	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read table status: %w", err)
	}

	orderID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt table status value: %w", err)
	}
	return orderID, true, nil
}

// Close closes the Redis client
func (s *RedisTableStatusStore) Close() error {
	return s.client.Close()
}

// Ensure RedisTableStatusStore implements TableStatusStore
var _ ordering.TableStatusStore = (*RedisTableStatusStore)(nil)
