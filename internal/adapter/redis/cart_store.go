package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkolchin/shopcart/internal/repository"
	"github.com/redis/go-redis/v9"
)

type cartStore struct {
	client *redis.Client
}

// NewCartStore adapts a redis client to the durable blob surface. The blob
// is written without TTL: the cart must outlive any session.
func NewCartStore(client *redis.Client) repository.CartStore {
	return &cartStore{
		client: client,
	}
}

func (s *cartStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cart blob %s from redis: %w", key, err)
	}
	return data, nil
}

func (s *cartStore) Write(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cart blob %s to redis: %w", key, err)
	}
	return nil
}
