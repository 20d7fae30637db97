package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
)

// InsertOrderIfAbsent seeds one pending order ledger row. Inserting an
// already-present source_order_id is a no-op, enforced by the unique
// constraint on the column.
func (s *Store) InsertOrderIfAbsent(ctx context.Context, rec *models.OrderMigrationRecord) (bool, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO order_migrations
			(source_order_id, source_customer_id, order_status, order_total, order_date,
			 payment_method, payment_method_title, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		ON CONFLICT (source_order_id) DO NOTHING
		RETURNING id`,
		rec.SourceOrderID, rec.SourceCustomerID, rec.OrderStatus, rec.OrderTotal,
		rec.OrderDate, rec.PaymentMethod, rec.PaymentMethodTitle)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert order ledger row for %d: %w", rec.SourceOrderID, err)
	}
	return true, nil
}

// ListPendingOrders returns up to limit pending orders, oldest order date
// first so refund/return references stay plausible on the destination side.
func (s *Store) ListPendingOrders(ctx context.Context, limit int) ([]models.OrderMigrationRecord, error) {
	var recs []models.OrderMigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM order_migrations WHERE status = 'pending' ORDER BY order_date ASC LIMIT $1`,
		limit)
	return recs, err
}

// UpdateOrder writes the outcome of one order migration attempt.
func (s *Store) UpdateOrder(ctx context.Context, sourceOrderID int64, status, message string, destOrderID, destCustomerID sql.NullInt64, migrationData string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE order_migrations
		SET status = $2, message = $3, dest_order_id = $4, dest_customer_id = $5,
			migration_data = $6, updated_at = NOW()
		WHERE source_order_id = $1`,
		sourceOrderID, status, message, destOrderID, destCustomerID, migrationData)
	return err
}

// ResetOrderErrors returns up to limit error rows to pending.
func (s *Store) ResetOrderErrors(ctx context.Context, limit int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE order_migrations SET status = 'pending', message = '', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM order_migrations WHERE status = 'error' ORDER BY order_date ASC LIMIT $1
		)`, limit)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// OrderStats returns per-status counts for the order ledger.
func (s *Store) OrderStats(ctx context.Context) (*models.StatusCounts, error) {
	var stats models.StatusCounts
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'success') AS success,
			COUNT(*) FILTER (WHERE status = 'error') AS error
		FROM order_migrations`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// CountPendingOrders counts order rows still pending.
func (s *Store) CountPendingOrders(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM order_migrations WHERE status = 'pending'`)
	return n, err
}

// ListFailedOrders returns error rows for operator triage.
func (s *Store) ListFailedOrders(ctx context.Context, limit int) ([]models.OrderMigrationRecord, error) {
	var recs []models.OrderMigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM order_migrations WHERE status = 'error' ORDER BY updated_at DESC LIMIT $1`,
		limit)
	return recs, err
}
