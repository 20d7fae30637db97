package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
)

// ReplaceMappings overwrites one mapping table wholesale, inside a single
// transaction. One-shot migrators call this after a successful run.
func (s *Store) ReplaceMappings(ctx context.Context, kind string, mappings map[string]int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_mappings WHERE kind = $1`, kind); err != nil {
		return fmt.Errorf("failed to clear %s mappings: %w", kind, err)
	}

	for key, destID := range mappings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entity_mappings (kind, source_key, dest_id) VALUES ($1, $2, $3)`,
			kind, key, destID); err != nil {
			return fmt.Errorf("failed to insert %s mapping %s: %w", kind, key, err)
		}
	}

	return tx.Commit()
}

// UpsertMapping writes a single mapping entry, overwriting any existing one.
func (s *Store) UpsertMapping(ctx context.Context, kind, sourceKey string, destID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entity_mappings (kind, source_key, dest_id) VALUES ($1, $2, $3)
		ON CONFLICT (kind, source_key) DO UPDATE SET dest_id = EXCLUDED.dest_id`,
		kind, sourceKey, destID)
	return err
}

// GetMapping looks up one mapping entry. ok is false when the key is unmapped.
func (s *Store) GetMapping(ctx context.Context, kind, sourceKey string) (int64, bool, error) {
	var destID int64
	err := s.db.GetContext(ctx, &destID,
		`SELECT dest_id FROM entity_mappings WHERE kind = $1 AND source_key = $2`,
		kind, sourceKey)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return destID, true, nil
}

// GetMappingsByKind loads one whole mapping table.
func (s *Store) GetMappingsByKind(ctx context.Context, kind string) (map[string]int64, error) {
	var rows []models.EntityMapping
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM entity_mappings WHERE kind = $1`, kind); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.SourceKey] = row.DestID
	}
	return out, nil
}

// CountMappings counts entries of one mapping kind.
func (s *Store) CountMappings(ctx context.Context, kind string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM entity_mappings WHERE kind = $1`, kind)
	return n, err
}
