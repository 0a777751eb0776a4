package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mintdrop/inventory/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRetrieve_NotFound(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client)

	client.Del(ctx, "product:nonexistent")

	p, err := store.Retrieve(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for absent product, got %+v", p)
	}
}

func TestUpdateRetrieve_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client)

	client.Del(ctx, "product:"+domain.ProductLimitedCard)

	in := domain.NewProduct(domain.ProductLimitedCard, time.Now().UTC().Truncate(time.Millisecond))
	in.Quantity = 42
	in.Version = 7
	in.LastDecrementBy = 3

	if err := store.Update(ctx, in.ID, &in); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	out, err := store.Retrieve(ctx, in.ID)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if out == nil {
		t.Fatal("expected product, got nil")
	}
	if out.Quantity != 42 || out.Version != 7 || out.LastDecrementBy != 3 {
		t.Errorf("round trip mangled the record: %+v", out)
	}
}

func TestUpdate_IsFullOverwrite(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client)

	client.Del(ctx, "product:"+domain.ProductDisplayCase)

	first := domain.NewProduct(domain.ProductDisplayCase, time.Now().UTC())
	first.Quantity = 10
	first.Version = 2
	first.LastDecrementBy = 5
	if err := store.Update(ctx, first.ID, &first); err != nil {
		t.Fatalf("first Update failed: %v", err)
	}

	second := domain.NewProduct(domain.ProductDisplayCase, time.Now().UTC())
	second.Quantity = 3
	second.Version = 9
	if err := store.Update(ctx, second.ID, &second); err != nil {
		t.Fatalf("second Update failed: %v", err)
	}

	out, err := store.Retrieve(ctx, second.ID)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	// Whole-record replacement: nothing from the first write survives.
	if out.Version != 9 || out.Quantity != 3 {
		t.Errorf("expected the second record verbatim, got %+v", out)
	}
	if out.LastDecrementBy != 0 {
		t.Errorf("stale field survived overwrite: %d", out.LastDecrementBy)
	}
}
