package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Migration-side tables only; source tables are read-only inputs owned by the
// import tooling that loads them.
const schema = `
CREATE TABLE IF NOT EXISTS product_migrations (
	id BIGSERIAL PRIMARY KEY,
	source_parent_id BIGINT NOT NULL,
	source_variant_id BIGINT,
	dest_parent_id BIGINT,
	dest_variant_id BIGINT,
	status TEXT NOT NULL DEFAULT 'pending',
	message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS product_migrations_unit_idx
	ON product_migrations (source_parent_id, COALESCE(source_variant_id, -1));
CREATE INDEX IF NOT EXISTS product_migrations_status_idx
	ON product_migrations (status);

CREATE TABLE IF NOT EXISTS customer_migrations (
	id BIGSERIAL PRIMARY KEY,
	source_user_id BIGINT NOT NULL UNIQUE,
	dest_customer_id BIGINT,
	customer_email TEXT NOT NULL DEFAULT '',
	customer_type TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_migrations (
	id BIGSERIAL PRIMARY KEY,
	source_order_id BIGINT NOT NULL UNIQUE,
	dest_order_id BIGINT,
	source_customer_id BIGINT,
	dest_customer_id BIGINT,
	order_status TEXT NOT NULL DEFAULT '',
	order_total TEXT NOT NULL DEFAULT '',
	order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	payment_method TEXT NOT NULL DEFAULT '',
	payment_method_title TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	message TEXT NOT NULL DEFAULT '',
	migration_data TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS verification_records (
	id BIGSERIAL PRIMARY KEY,
	source_parent_id BIGINT NOT NULL,
	source_variant_id BIGINT,
	dest_parent_id BIGINT NOT NULL,
	dest_variant_id BIGINT,
	verification_status TEXT NOT NULL DEFAULT 'pending',
	verification_message TEXT NOT NULL DEFAULT '',
	weight_synced BOOLEAN NOT NULL DEFAULT FALSE,
	last_verified TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS verification_records_unit_idx
	ON verification_records (source_parent_id, COALESCE(source_variant_id, -1));
CREATE INDEX IF NOT EXISTS verification_records_status_idx
	ON verification_records (verification_status);

CREATE TABLE IF NOT EXISTS entity_mappings (
	id BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	source_key TEXT NOT NULL,
	dest_id BIGINT NOT NULL,
	UNIQUE (kind, source_key)
);
`

// EnsureSchema creates the ledger, verification, and mapping tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
