package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
)

// InsertUnitIfAbsent seeds one pending ledger row for a product unit. The
// unique index on (parent, variant) makes this an upsert; re-running prepare
// never duplicates a row. Returns whether a row was actually inserted.
func (s *Store) InsertUnitIfAbsent(ctx context.Context, unit models.UnitRef) (bool, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO product_migrations (source_parent_id, source_variant_id, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (source_parent_id, COALESCE(source_variant_id, -1)) DO NOTHING
		RETURNING id`,
		unit.ParentID, unit.VariantID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert ledger row for %s: %w", unit, err)
	}
	return true, nil
}

// GetUnit fetches the ledger row for one product unit.
func (s *Store) GetUnit(ctx context.Context, unit models.UnitRef) (*models.MigrationRecord, error) {
	var rec models.MigrationRecord
	err := s.db.GetContext(ctx, &rec, `
		SELECT * FROM product_migrations
		WHERE source_parent_id = $1 AND source_variant_id IS NOT DISTINCT FROM $2`,
		unit.ParentID, unit.VariantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListPendingParents returns up to limit pending parent-level rows, FIFO by
// primary key. Variant rows are advanced while their parent is processed and
// are never fetched here.
func (s *Store) ListPendingParents(ctx context.Context, limit int) ([]models.MigrationRecord, error) {
	var recs []models.MigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM product_migrations
		WHERE status = 'pending' AND source_variant_id IS NULL
		ORDER BY id ASC
		LIMIT $1`, limit)
	return recs, err
}

// ListPendingOrphanVariants returns pending variant rows whose parent has
// already succeeded. These show up after a variant-level retry, when the
// parent no longer drives them through a normal batch.
func (s *Store) ListPendingOrphanVariants(ctx context.Context, limit int) ([]models.MigrationRecord, error) {
	var recs []models.MigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT v.* FROM product_migrations v
		JOIN product_migrations p
			ON p.source_parent_id = v.source_parent_id AND p.source_variant_id IS NULL
		WHERE v.status = 'pending' AND v.source_variant_id IS NOT NULL
			AND p.status = 'success'
		ORDER BY v.id ASC
		LIMIT $1`, limit)
	return recs, err
}

// UpdateUnit writes the outcome of a migration attempt for one unit.
func (s *Store) UpdateUnit(ctx context.Context, unit models.UnitRef, status, message string, destParentID, destVariantID sql.NullInt64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE product_migrations
		SET status = $3, message = $4, dest_parent_id = $5, dest_variant_id = $6, updated_at = NOW()
		WHERE source_parent_id = $1 AND source_variant_id IS NOT DISTINCT FROM $2`,
		unit.ParentID, unit.VariantID, status, message, destParentID, destVariantID)
	return err
}

// ResetProductErrors returns up to limit error rows to pending and reports how
// many were reset.
func (s *Store) ResetProductErrors(ctx context.Context, limit int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE product_migrations SET status = 'pending', message = '', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM product_migrations WHERE status = 'error' ORDER BY id ASC LIMIT $1
		)`, limit)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// CountRemainingProducts counts units a batch call can still advance: pending
// parents plus pending variants whose parent already succeeded.
func (s *Store) CountRemainingProducts(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM product_migrations v
		WHERE v.status = 'pending' AND (
			v.source_variant_id IS NULL
			OR EXISTS (
				SELECT 1 FROM product_migrations p
				WHERE p.source_parent_id = v.source_parent_id
					AND p.source_variant_id IS NULL AND p.status = 'success'
			)
		)`)
	return n, err
}

// ProductStats returns per-status counts split between parent and variant rows.
func (s *Store) ProductStats(ctx context.Context) (*models.ProductStats, error) {
	var stats models.ProductStats
	err := s.db.GetContext(ctx, &stats.Products, `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'success') AS success,
			COUNT(*) FILTER (WHERE status = 'error') AS error
		FROM product_migrations WHERE source_variant_id IS NULL`)
	if err != nil {
		return nil, err
	}
	err = s.db.GetContext(ctx, &stats.Variations, `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'success') AS success,
			COUNT(*) FILTER (WHERE status = 'error') AS error
		FROM product_migrations WHERE source_variant_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListFailedProducts returns error rows for operator triage.
func (s *Store) ListFailedProducts(ctx context.Context, limit int) ([]models.MigrationRecord, error) {
	var recs []models.MigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM product_migrations WHERE status = 'error' ORDER BY updated_at DESC LIMIT $1`,
		limit)
	return recs, err
}

// ListSuccessfulUnits returns all successfully migrated units, used to seed
// the verification ledger.
func (s *Store) ListSuccessfulUnits(ctx context.Context) ([]models.MigrationRecord, error) {
	var recs []models.MigrationRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM product_migrations WHERE status = 'success' ORDER BY id ASC`)
	return recs, err
}

// ResolveDestProduct resolves a source product to its destination id via the
// ledger. ok is false when the product has no successful parent row.
func (s *Store) ResolveDestProduct(ctx context.Context, sourceProductID int64) (int64, bool, error) {
	var destID sql.NullInt64
	err := s.db.GetContext(ctx, &destID, `
		SELECT dest_parent_id FROM product_migrations
		WHERE source_parent_id = $1 AND source_variant_id IS NULL AND status = 'success'`,
		sourceProductID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return destID.Int64, destID.Valid, nil
}

// ResolveDestVariant resolves a source variation to its destination product
// and variant ids via the ledger.
func (s *Store) ResolveDestVariant(ctx context.Context, sourceParentID, sourceVariantID int64) (destProductID, destVariantID int64, ok bool, err error) {
	var rec models.MigrationRecord
	err = s.db.GetContext(ctx, &rec, `
		SELECT * FROM product_migrations
		WHERE source_parent_id = $1 AND source_variant_id = $2 AND status = 'success'`,
		sourceParentID, sourceVariantID)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	if !rec.DestParentID.Valid || !rec.DestVariantID.Valid {
		return 0, 0, false, nil
	}
	return rec.DestParentID.Int64, rec.DestVariantID.Int64, true, nil
}
