package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mintdrop/inventory/internal/core/domain"
)

// MySQLJournal persists accepted-decrement audit entries.
//
// Schema:
//
//	CREATE TABLE sale_journal (
//	    id          VARCHAR(36)  PRIMARY KEY,
//	    product_id  VARCHAR(64)  NOT NULL,
//	    amount      INT          NOT NULL,
//	    prev_qty    INT          NOT NULL,
//	    new_qty     INT          NOT NULL,
//	    version     INT          NOT NULL,
//	    request_id  VARCHAR(64)  NOT NULL,
//	    created_at  DATETIME(6)  NOT NULL
//	);
type MySQLJournal struct {
	db *sql.DB
}

func NewMySQLJournal(db *sql.DB) *MySQLJournal {
	return &MySQLJournal{db: db}
}

func (m *MySQLJournal) RecordSale(ctx context.Context, record domain.SaleRecord) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO sale_journal (id, product_id, amount, prev_qty, new_qty, version, request_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.ProductID, record.Amount, record.PreviousQuantity,
		record.NewQuantity, record.Version, record.RequestID, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale record: %w", err)
	}
	return nil
}
