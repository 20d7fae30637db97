package models

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration ledger statuses
const (
	MigrationStatusPending = "pending"
	MigrationStatusSuccess = "success"
	MigrationStatusError   = "error"
)

// Verification statuses
const (
	VerificationStatusPending  = "pending"
	VerificationStatusVerified = "verified"
	VerificationStatusFailed   = "failed"
)

// Mapping table kinds
const (
	MappingCategory      = "category"
	MappingOption        = "option"
	MappingBrand         = "brand"
	MappingCustomerGroup = "customer_group"
	MappingPriceList     = "price_list"
)

// UnitRef identifies one migratable product unit: either a parent (simple or
// variable product) or one variation belonging to a parent. The zero VariantID
// state is never exposed; use ParentUnit / VariantUnit.
type UnitRef struct {
	ParentID  int64
	VariantID sql.NullInt64
}

// ParentUnit refers to the parent-level row of a product.
func ParentUnit(parentID int64) UnitRef {
	return UnitRef{ParentID: parentID}
}

// VariantUnit refers to one variation row under a parent.
func VariantUnit(parentID, variantID int64) UnitRef {
	return UnitRef{ParentID: parentID, VariantID: sql.NullInt64{Int64: variantID, Valid: true}}
}

// IsParent reports whether the ref addresses the parent-level row.
func (u UnitRef) IsParent() bool {
	return !u.VariantID.Valid
}

func (u UnitRef) String() string {
	if u.IsParent() {
		return fmt.Sprintf("product %d", u.ParentID)
	}
	return fmt.Sprintf("product %d variant %d", u.ParentID, u.VariantID.Int64)
}

// MigrationRecord is one product-ledger row: a parent product or one variation.
type MigrationRecord struct {
	ID              int64         `db:"id" json:"id"`
	SourceParentID  int64         `db:"source_parent_id" json:"source_parent_id"`
	SourceVariantID sql.NullInt64 `db:"source_variant_id" json:"source_variant_id"`
	DestParentID    sql.NullInt64 `db:"dest_parent_id" json:"dest_parent_id"`
	DestVariantID   sql.NullInt64 `db:"dest_variant_id" json:"dest_variant_id"`
	Status          string        `db:"status" json:"status"`
	Message         string        `db:"message" json:"message"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// Unit returns the tagged unit this row describes.
func (r *MigrationRecord) Unit() UnitRef {
	return UnitRef{ParentID: r.SourceParentID, VariantID: r.SourceVariantID}
}

// CustomerMigrationRecord tracks one customer through the ledger.
type CustomerMigrationRecord struct {
	ID             int64         `db:"id" json:"id"`
	SourceUserID   int64         `db:"source_user_id" json:"source_user_id"`
	DestCustomerID sql.NullInt64 `db:"dest_customer_id" json:"dest_customer_id"`
	CustomerEmail  string        `db:"customer_email" json:"customer_email"`
	CustomerType   string        `db:"customer_type" json:"customer_type"`
	Status         string        `db:"status" json:"status"`
	Message        string        `db:"message" json:"message"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// OrderMigrationRecord tracks one order through the ledger.
type OrderMigrationRecord struct {
	ID                 int64         `db:"id" json:"id"`
	SourceOrderID      int64         `db:"source_order_id" json:"source_order_id"`
	DestOrderID        sql.NullInt64 `db:"dest_order_id" json:"dest_order_id"`
	SourceCustomerID   sql.NullInt64 `db:"source_customer_id" json:"source_customer_id"`
	DestCustomerID     sql.NullInt64 `db:"dest_customer_id" json:"dest_customer_id"`
	OrderStatus        string        `db:"order_status" json:"order_status"`
	OrderTotal         string        `db:"order_total" json:"order_total"`
	OrderDate          time.Time     `db:"order_date" json:"order_date"`
	PaymentMethod      string        `db:"payment_method" json:"payment_method"`
	PaymentMethodTitle string        `db:"payment_method_title" json:"payment_method_title"`
	Status             string        `db:"status" json:"status"`
	Message            string        `db:"message" json:"message"`
	MigrationData      string        `db:"migration_data" json:"migration_data"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// VerificationRecord tracks one reconciliation unit, seeded from successful
// product migrations.
type VerificationRecord struct {
	ID                  int64         `db:"id" json:"id"`
	SourceParentID      int64         `db:"source_parent_id" json:"source_parent_id"`
	SourceVariantID     sql.NullInt64 `db:"source_variant_id" json:"source_variant_id"`
	DestParentID        int64         `db:"dest_parent_id" json:"dest_parent_id"`
	DestVariantID       sql.NullInt64 `db:"dest_variant_id" json:"dest_variant_id"`
	VerificationStatus  string        `db:"verification_status" json:"verification_status"`
	VerificationMessage string        `db:"verification_message" json:"verification_message"`
	WeightSynced        bool          `db:"weight_synced" json:"weight_synced"`
	LastVerified        sql.NullTime  `db:"last_verified" json:"last_verified"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
}

// Unit returns the tagged unit this record describes.
func (r *VerificationRecord) Unit() UnitRef {
	return UnitRef{ParentID: r.SourceParentID, VariantID: r.SourceVariantID}
}

// EntityMapping is one row of a key->destination-id mapping table.
type EntityMapping struct {
	ID        int64  `db:"id"`
	Kind      string `db:"kind"`
	SourceKey string `db:"source_key"`
	DestID    int64  `db:"dest_id"`
}

// StatusCounts aggregates ledger rows per status.
type StatusCounts struct {
	Total   int `db:"total" json:"total"`
	Pending int `db:"pending" json:"pending"`
	Success int `db:"success" json:"success"`
	Error   int `db:"error" json:"error"`
}

// ProductStats splits counts between parent and variant rows.
type ProductStats struct {
	Products   StatusCounts `json:"products"`
	Variations StatusCounts `json:"variations"`
}

// VerificationStats aggregates verification rows per status.
type VerificationStats struct {
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Verified int `db:"verified" json:"verified"`
	Failed   int `db:"failed" json:"failed"`
}
