package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mintdrop/inventory/internal/core/domain"
)

const productKeyPrefix = "product:"

// RedisStore holds each product as a single JSON blob. It mirrors the remote
// catalog's contract exactly: retrieve and whole-record overwrite, nothing
// conditional. No Lua, no WATCH — the ledger's optimistic protocol is the
// only concurrency control, the same as it would be against the real catalog.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Retrieve(ctx context.Context, productID string) (*domain.Product, error) {
	raw, err := s.client.Get(ctx, productKeyPrefix+productID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}

	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", productID, err)
	}
	return &p, nil
}

func (s *RedisStore) Update(ctx context.Context, productID string, product *domain.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product %s: %w", productID, err)
	}
	if err := s.client.Set(ctx, productKeyPrefix+productID, raw, 0).Err(); err != nil {
		return fmt.Errorf("set product %s: %w", productID, err)
	}
	return nil
}
