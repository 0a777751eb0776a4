package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mintdrop/inventory/internal/adapter/storage"
	"github.com/mintdrop/inventory/internal/core/domain"
	"github.com/mintdrop/inventory/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	productID     = domain.ProductLimitedCard
	initialStock  = 20
	totalRequests = 50
	maxAttempts   = 8
	baseBackoff   = 10 * time.Millisecond
	queueSize     = 128
)

func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data so bootstrap starts fresh.
	rdb.Del(ctx, "product:"+productID)

	store := storage.NewRedisStore(rdb)
	ledger := service.NewLedger(store, maxAttempts, baseBackoff, queueSize)
	defer ledger.Close()

	// Drain the sale queue in background.
	go func() {
		for range ledger.GetSaleQueue() {
		}
	}()

	// Seed the product at a known quantity.
	if _, err := ledger.Ensure(ctx, productID); err != nil {
		log.Fatalf("failed to bootstrap product: %v", err)
	}
	stock := initialStock
	if _, err := ledger.AdminUpdate(ctx, productID, &stock, nil); err != nil {
		log.Fatalf("failed to seed stock: %v", err)
	}

	var successCount atomic.Int32
	var soldOutCount atomic.Int32
	var exhaustedCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			reqID := fmt.Sprintf("stress-%d", id)
			_, err := ledger.Decrement(ctx, reqID, productID, 1)
			switch {
			case err == nil:
				successCount.Add(1)
			case isInsufficient(err):
				soldOutCount.Add(1)
			default:
				exhaustedCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	soldOut := soldOutCount.Load()
	exhausted := exhaustedCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:     %d\n", initialStock)
	fmt.Printf("Total Requests:    %d\n", totalRequests)
	fmt.Printf("Successful:        %d\n", success)
	fmt.Printf("Sold Out:          %d\n", soldOut)
	fmt.Printf("Retries Exhausted: %d\n", exhausted)
	fmt.Printf("Duration:          %v\n", elapsed)
	fmt.Println("==========================================")

	final, err := ledger.Ensure(ctx, productID)
	if err != nil {
		log.Fatalf("failed to read final state: %v", err)
	}
	fmt.Printf("Final Quantity: %d (version %d)\n", final.Quantity, final.Version)

	// The store verify step is weaker than CAS, so the hard assertions are
	// non-negativity and accounting, not an exact success count.
	if final.Quantity < 0 {
		fmt.Println("FAIL: quantity went negative")
		return
	}
	if int(success) != initialStock-final.Quantity {
		fmt.Printf("FAIL: %d successes but quantity dropped by %d\n",
			success, initialStock-final.Quantity)
		return
	}
	fmt.Println("PASS: quantity never negative, successes match quantity drop")
}

func isInsufficient(err error) bool {
	var insufficient *service.InsufficientInventoryError
	return errors.As(err, &insufficient)
}
