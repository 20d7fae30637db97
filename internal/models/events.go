package models

import "time"

// Event types
const (
	EventTypeProductMigrated    = "PRODUCT_MIGRATED"
	EventTypeProductFailed      = "PRODUCT_FAILED"
	EventTypeVariantMigrated    = "VARIANT_MIGRATED"
	EventTypeVariantFailed      = "VARIANT_FAILED"
	EventTypeCustomerMigrated   = "CUSTOMER_MIGRATED"
	EventTypeCustomerFailed     = "CUSTOMER_FAILED"
	EventTypeOrderMigrated      = "ORDER_MIGRATED"
	EventTypeOrderFailed        = "ORDER_FAILED"
	EventTypeEntityVerified     = "ENTITY_VERIFIED"
	EventTypeVerificationFailed = "VERIFICATION_FAILED"
)

// MigrationEvent is published for every per-unit outcome so downstream audit
// consumers can follow migration progress without polling the ledger.
type MigrationEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SourceID  int64     `json:"source_id"`
	DestID    int64     `json:"dest_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
