package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/mintdrop/inventory/internal/adapter/handler"
	"github.com/mintdrop/inventory/internal/adapter/storage"
	"github.com/mintdrop/inventory/internal/config"
	"github.com/mintdrop/inventory/internal/core/domain"
	"github.com/mintdrop/inventory/internal/core/service"
	"github.com/mintdrop/inventory/internal/obs"
	"github.com/mintdrop/inventory/internal/port"
)

func main() {
	obs.InitLogger(slog.LevelInfo)
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metadata store (the remote catalog stand-in).
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		obs.Logger.Error("failed to connect redis", "err", err)
		os.Exit(1)
	}
	obs.Logger.Info("connected to redis", "addr", cfg.RedisAddr)

	// Sale journal backing store.
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		obs.Logger.Error("failed to open mysql", "err", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		obs.Logger.Error("failed to ping mysql", "err", err)
		os.Exit(1)
	}
	obs.Logger.Info("connected to mysql")

	store := storage.NewRedisStore(rdb)
	journal := storage.NewMySQLJournal(db)

	ledger := service.NewLedger(store, cfg.MaxAttempts, cfg.BaseBackoff, cfg.QueueSize)

	// Bootstrap the catalog so the first read does not race creation with
	// the first sale.
	if _, err := ledger.Snapshot(ctx); err != nil {
		obs.Logger.Error("failed to bootstrap catalog", "err", err)
		os.Exit(1)
	}
	obs.Logger.Info("catalog bootstrapped", "products", len(domain.Catalog))

	// Journal worker pool.
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			journalWorker(id, ledger.GetSaleQueue(), journal)
		}(i)
	}
	obs.Logger.Info("started journal workers", "count", cfg.WorkerCount)

	httpHandler := handler.NewHTTPHandler(ledger, cfg.DecrementTimeout)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/csrf", httpHandler.CSRFToken)
	mux.HandleFunc("/inventory", httpHandler.Inventory)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.WithRequestID(handler.WithLogging(mux)),
	}

	go func() {
		obs.Logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			obs.Logger.Error("http server error", "err", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	obs.Logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	obs.Logger.Info("http server stopped")

	ledger.Close()
	wg.Wait()
	obs.Logger.Info("journal workers stopped")

	rdb.Close()
	db.Close()
	obs.Logger.Info("connections closed")
}

func journalWorker(id int, queue <-chan domain.SaleRecord, journal port.SaleJournal) {
	for record := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := journal.RecordSale(ctx, record); err != nil {
			// Advisory data: log and move on, never touch inventory.
			obs.Logger.Error("failed to journal sale",
				"worker", id, "sale_id", record.ID, "err", err)
		}

		cancel()
	}
}
