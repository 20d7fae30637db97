package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
)

// InsertVerificationIfAbsent seeds one pending verification row from a
// successful migration. The unique index makes repeated populate calls no-ops.
func (s *Store) InsertVerificationIfAbsent(ctx context.Context, unit models.UnitRef, destParentID int64, destVariantID sql.NullInt64) (bool, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO verification_records
			(source_parent_id, source_variant_id, dest_parent_id, dest_variant_id, verification_status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (source_parent_id, COALESCE(source_variant_id, -1)) DO NOTHING
		RETURNING id`,
		unit.ParentID, unit.VariantID, destParentID, destVariantID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert verification row for %s: %w", unit, err)
	}
	return true, nil
}

// ListPendingVerifications returns up to limit pending verification rows, FIFO.
func (s *Store) ListPendingVerifications(ctx context.Context, limit int) ([]models.VerificationRecord, error) {
	var recs []models.VerificationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM verification_records WHERE verification_status = 'pending'
		ORDER BY id ASC LIMIT $1`, limit)
	return recs, err
}

// UpdateVerification finalizes one verification attempt and stamps it.
func (s *Store) UpdateVerification(ctx context.Context, id int64, status, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE verification_records
		SET verification_status = $2, verification_message = $3, last_verified = NOW()
		WHERE id = $1`,
		id, status, message)
	return err
}

// SetVerificationDestVariant records a variant id discovered (created) during
// verification of a previously variant-less record.
func (s *Store) SetVerificationDestVariant(ctx context.Context, id, destVariantID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE verification_records SET dest_variant_id = $2 WHERE id = $1`,
		id, destVariantID)
	return err
}

// ResetFailedVerifications bulk-returns up to limit failed rows to pending.
// Verified rows are never touched.
func (s *Store) ResetFailedVerifications(ctx context.Context, limit int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE verification_records
		SET verification_status = 'pending', verification_message = ''
		WHERE id IN (
			SELECT id FROM verification_records WHERE verification_status = 'failed'
			ORDER BY id ASC LIMIT $1
		)`, limit)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// CountPendingVerifications counts rows still pending verification.
func (s *Store) CountPendingVerifications(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM verification_records WHERE verification_status = 'pending'`)
	return n, err
}

// VerificationStats returns per-status counts for the verification ledger.
func (s *Store) VerificationStats(ctx context.Context) (*models.VerificationStats, error) {
	var stats models.VerificationStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE verification_status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE verification_status = 'verified') AS verified,
			COUNT(*) FILTER (WHERE verification_status = 'failed') AS failed
		FROM verification_records`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListWeightPending returns rows the weight-only pass has not yet covered.
// Parent-level rows only; variant weights ride along with their parent fix.
func (s *Store) ListWeightPending(ctx context.Context, limit int) ([]models.VerificationRecord, error) {
	var recs []models.VerificationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM verification_records
		WHERE weight_synced = FALSE AND source_variant_id IS NULL
		ORDER BY id ASC LIMIT $1`, limit)
	return recs, err
}

// MarkWeightSynced records that the weight-only pass handled a row.
func (s *Store) MarkWeightSynced(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE verification_records SET weight_synced = TRUE WHERE id = $1`, id)
	return err
}

// CountWeightPending counts rows the weight-only pass still has to visit.
func (s *Store) CountWeightPending(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM verification_records
		WHERE weight_synced = FALSE AND source_variant_id IS NULL`)
	return n, err
}
