package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tradelink/backend/internal/domain/settlement"
)

const cartKeyPrefix = "cart:"

// cartTTL keeps abandoned carts from accumulating forever
const cartTTL = 30 * 24 * time.Hour

// RedisCartStore keeps buyer carts in Redis hashes keyed by buyer email,
// one field per product. Checkout only needs to remove purchased items;
// reads and writes belong to the storefront.
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore connects to Redis and verifies the connection
func NewRedisCartStore(cfg RedisConfig) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCartStore{client: client}, nil
}

// NewRedisCartStoreWithClient wraps an existing client (for tests)
func NewRedisCartStoreWithClient(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{client: client}
}

// AddItem records a cart line for the buyer
func (s *RedisCartStore) AddItem(ctx context.Context, buyerEmail string, productID uuid.UUID, quantity string) error {
	key := cartKeyPrefix + buyerEmail
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, productID.String(), quantity)
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// RemovePurchasedItems deletes the purchased product lines from the buyer's
// cart after an order is paid
func (s *RedisCartStore) RemovePurchasedItems(ctx context.Context, buyerEmail string, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	fields := make([]string, len(productIDs))
	for i, id := range productIDs {
		fields[i] = id.String()
	}
	if err := s.client.HDel(ctx, cartKeyPrefix+buyerEmail, fields...).Err(); err != nil {
		return fmt.Errorf("remove purchased items: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

var _ settlement.CartRemover = (*RedisCartStore)(nil)
