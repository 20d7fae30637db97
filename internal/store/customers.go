package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
)

// InsertCustomerIfAbsent seeds one pending customer ledger row.
func (s *Store) InsertCustomerIfAbsent(ctx context.Context, sourceUserID int64, email, customerType string) (bool, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO customer_migrations (source_user_id, customer_email, customer_type, status)
		VALUES ($1, $2, $3, 'pending')
		ON CONFLICT (source_user_id) DO NOTHING
		RETURNING id`,
		sourceUserID, email, customerType)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert customer ledger row for %d: %w", sourceUserID, err)
	}
	return true, nil
}

// ListPendingCustomers returns up to limit pending customer rows, FIFO.
func (s *Store) ListPendingCustomers(ctx context.Context, limit int) ([]models.CustomerMigrationRecord, error) {
	var recs []models.CustomerMigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM customer_migrations WHERE status = 'pending' ORDER BY id ASC LIMIT $1`,
		limit)
	return recs, err
}

// UpdateCustomer writes the outcome of one customer migration attempt.
func (s *Store) UpdateCustomer(ctx context.Context, sourceUserID int64, status, message string, destCustomerID sql.NullInt64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE customer_migrations
		SET status = $2, message = $3, dest_customer_id = $4, updated_at = NOW()
		WHERE source_user_id = $1`,
		sourceUserID, status, message, destCustomerID)
	return err
}

// ResetCustomerErrors returns up to limit error rows to pending.
func (s *Store) ResetCustomerErrors(ctx context.Context, limit int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customer_migrations SET status = 'pending', message = '', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM customer_migrations WHERE status = 'error' ORDER BY id ASC LIMIT $1
		)`, limit)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// CustomerStats returns per-status counts for the customer ledger.
func (s *Store) CustomerStats(ctx context.Context) (*models.StatusCounts, error) {
	var stats models.StatusCounts
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'success') AS success,
			COUNT(*) FILTER (WHERE status = 'error') AS error
		FROM customer_migrations`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// CountPendingCustomers counts customer rows still pending.
func (s *Store) CountPendingCustomers(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM customer_migrations WHERE status = 'pending'`)
	return n, err
}

// ListFailedCustomers returns error rows for operator triage.
func (s *Store) ListFailedCustomers(ctx context.Context, limit int) ([]models.CustomerMigrationRecord, error) {
	var recs []models.CustomerMigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM customer_migrations WHERE status = 'error' ORDER BY updated_at DESC LIMIT $1`,
		limit)
	return recs, err
}

// ResolveDestCustomer maps a source user id to its migrated destination
// customer id. ok is false when the customer has not migrated successfully.
func (s *Store) ResolveDestCustomer(ctx context.Context, sourceUserID int64) (int64, bool, error) {
	var destID sql.NullInt64
	err := s.db.GetContext(ctx, &destID, `
		SELECT dest_customer_id FROM customer_migrations
		WHERE source_user_id = $1 AND status = 'success'`,
		sourceUserID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return destID.Int64, destID.Valid, nil
}
