package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/mintdrop/inventory/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	return db
}

func TestRecordSale(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	journal := NewMySQLJournal(db)

	record := domain.SaleRecord{
		ID:               uuid.NewString(),
		ProductID:        domain.ProductLimitedCard,
		Amount:           2,
		PreviousQuantity: 10,
		NewQuantity:      8,
		Version:          4,
		RequestID:        "test-request",
		CreatedAt:        time.Now().UTC(),
	}

	if err := journal.RecordSale(ctx, record); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	var amount, prevQty, newQty, version int
	err := db.QueryRowContext(ctx, `
		SELECT amount, prev_qty, new_qty, version FROM sale_journal WHERE id = ?`,
		record.ID,
	).Scan(&amount, &prevQty, &newQty, &version)
	if err != nil {
		t.Fatalf("sale record not found: %v", err)
	}
	if amount != 2 || prevQty != 10 || newQty != 8 || version != 4 {
		t.Errorf("stored record mismatch: %d %d %d %d", amount, prevQty, newQty, version)
	}

	db.ExecContext(ctx, `DELETE FROM sale_journal WHERE id = ?`, record.ID)
}

func TestRecordSale_DuplicateID(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	journal := NewMySQLJournal(db)

	record := domain.SaleRecord{
		ID:        uuid.NewString(),
		ProductID: domain.ProductDisplayCase,
		Amount:    1,
		Version:   2,
		RequestID: "test-request",
		CreatedAt: time.Now().UTC(),
	}

	if err := journal.RecordSale(ctx, record); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := journal.RecordSale(ctx, record); err == nil {
		t.Error("expected duplicate key error")
	}

	db.ExecContext(ctx, `DELETE FROM sale_journal WHERE id = ?`, record.ID)
}
