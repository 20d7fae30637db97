package migrate

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/broker"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// OrderMigrator advances the order ledger. Orders migrate last: they reference
// both the customer ledger and the product ledger, falling back to custom line
// items for products that never made it across.
type OrderMigrator struct {
	store  *store.Store
	client Requester
	events *broker.EventPublisher
	delay  time.Duration
	logger *zap.Logger
}

// NewOrderMigrator creates an order migrator.
func NewOrderMigrator(st *store.Store, client Requester, events *broker.EventPublisher, delay time.Duration) *OrderMigrator {
	return &OrderMigrator{
		store:  st,
		client: client,
		events: events,
		delay:  delay,
		logger: util.GetLogger(),
	}
}

// Prepare seeds one pending ledger row per source order. Re-runnable.
func (m *OrderMigrator) Prepare(ctx context.Context) (*PrepareResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderMigrator.Prepare")
	defer span.End()

	orders, err := m.store.GetSourceOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source orders: %w", err)
	}

	result := &PrepareResult{}
	for _, o := range orders {
		inserted, err := m.store.InsertOrderIfAbsent(ctx, &models.OrderMigrationRecord{
			SourceOrderID:      o.ID,
			SourceCustomerID:   o.CustomerID,
			OrderStatus:        o.Status,
			OrderTotal:         o.Total,
			OrderDate:          o.OrderDate,
			PaymentMethod:      o.PaymentMethod,
			PaymentMethodTitle: o.PaymentMethodTitle,
		})
		if err != nil {
			return nil, err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	result.Total = result.Inserted + result.Skipped
	m.logger.Info("Order ledger prepared",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// ProcessBatch advances up to batchSize pending orders, oldest first.
func (m *OrderMigrator) ProcessBatch(ctx context.Context, batchSize int) (*BatchResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderMigrator.ProcessBatch")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BatchDuration.WithLabelValues("orders").Observe(time.Since(start).Seconds())
	}()

	recs, err := m.store.ListPendingOrders(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for _, rec := range recs {
		if err := m.migrateOne(ctx, rec); err != nil {
			result.Errors++
		} else {
			result.Processed++
		}
		time.Sleep(m.delay)
	}

	result.Remaining, err = m.store.CountPendingOrders(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RetryErrors returns up to batchSize error rows to pending and reprocesses.
func (m *OrderMigrator) RetryErrors(ctx context.Context, batchSize int) (*BatchResult, error) {
	reset, err := m.store.ResetOrderErrors(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Order errors reset to pending", zap.Int("count", reset))
	return m.ProcessBatch(ctx, batchSize)
}

// Stats reports order ledger counts per status.
func (m *OrderMigrator) Stats(ctx context.Context) (*models.StatusCounts, error) {
	return m.store.OrderStats(ctx)
}

// ListFailed returns error rows for operator triage.
func (m *OrderMigrator) ListFailed(ctx context.Context, limit int) ([]models.OrderMigrationRecord, error) {
	return m.store.ListFailedOrders(ctx, limit)
}

// ValidateDependencies reports whether the order phase is safe to start. It
// never blocks processing; operators read the report and decide.
func (m *OrderMigrator) ValidateDependencies(ctx context.Context) ([]DependencyCheck, error) {
	ctx, span := util.StartSpan(ctx, "OrderMigrator.ValidateDependencies")
	defer span.End()

	var checks []DependencyCheck

	productStats, err := m.store.ProductStats(ctx)
	if err != nil {
		return nil, err
	}
	checks = append(checks, DependencyCheck{
		Name: "products_migrated",
		OK:   productStats.Products.Success > 0 && productStats.Products.Pending == 0,
		Message: fmt.Sprintf("%d of %d products migrated, %d pending",
			productStats.Products.Success, productStats.Products.Total, productStats.Products.Pending),
	})

	customerStats, err := m.store.CustomerStats(ctx)
	if err != nil {
		return nil, err
	}
	checks = append(checks, DependencyCheck{
		Name: "customers_migrated",
		OK:   customerStats.Success > 0 && customerStats.Pending == 0,
		Message: fmt.Sprintf("%d of %d customers migrated, %d pending",
			customerStats.Success, customerStats.Total, customerStats.Pending),
	})

	groups, err := m.store.CountMappings(ctx, models.MappingCustomerGroup)
	if err != nil {
		return nil, err
	}
	checks = append(checks, DependencyCheck{
		Name:    "customer_groups_mapped",
		OK:      groups > 0,
		Message: fmt.Sprintf("%d customer group mappings present", groups),
	})

	orderCount, err := m.store.CountSourceOrders(ctx)
	if err != nil {
		return nil, err
	}
	checks = append(checks, DependencyCheck{
		Name:    "source_orders_present",
		OK:      orderCount > 0,
		Message: fmt.Sprintf("%d source orders found", orderCount),
	})

	res, err := m.client.Request(ctx, http.MethodGet, "v2/store", nil)
	remoteOK := err == nil && !res.Failed()
	remoteMsg := "destination store reachable"
	if !remoteOK {
		remoteMsg = "destination store unreachable"
		if err != nil {
			remoteMsg = fmt.Sprintf("destination store unreachable: %v", err)
		} else if res.Error != "" {
			remoteMsg = fmt.Sprintf("destination store unreachable: %s", res.Error)
		}
	}
	checks = append(checks, DependencyCheck{Name: "destination_reachable", OK: remoteOK, Message: remoteMsg})

	return checks, nil
}

func (m *OrderMigrator) migrateOne(ctx context.Context, rec models.OrderMigrationRecord) error {
	order, err := m.store.GetSourceOrder(ctx, rec.SourceOrderID)
	if err != nil {
		return m.fail(ctx, rec.SourceOrderID, err.Error(), "")
	}

	items, err := m.store.GetSourceOrderItems(ctx, order.ID)
	if err != nil {
		return m.fail(ctx, rec.SourceOrderID, err.Error(), "")
	}
	if len(items) == 0 {
		return m.fail(ctx, rec.SourceOrderID, "order has no line items", "")
	}

	// Guest checkouts and never-migrated customers land on customer id 0.
	var destCustomerID int64
	if order.CustomerID.Valid {
		id, ok, err := m.store.ResolveDestCustomer(ctx, order.CustomerID.Int64)
		if err != nil {
			return m.fail(ctx, rec.SourceOrderID, err.Error(), "")
		}
		if ok {
			destCustomerID = id
		} else {
			m.logger.Warn("Order customer not migrated, importing as guest",
				zap.Int64("order_id", order.ID),
				zap.Int64("customer_id", order.CustomerID.Int64))
		}
	}

	lineItems, unmapped, err := m.resolveLineItems(ctx, items)
	if err != nil {
		return m.fail(ctx, rec.SourceOrderID, err.Error(), "")
	}

	payload := buildOrderPayload(order, destCustomerID, lineItems)

	debug := map[string]interface{}{
		"source_order_id":  order.ID,
		"dest_customer_id": destCustomerID,
		"line_items":       len(lineItems),
		"unmapped_items":   unmapped,
	}
	debugJSON, _ := json.Marshal(debug)

	res, err := m.client.Request(ctx, http.MethodPost, "v2/orders", payload)
	if err != nil {
		return err
	}
	if res.Failed() {
		return m.fail(ctx, rec.SourceOrderID, res.Error, string(debugJSON))
	}

	// v2 answers with the bare order object, no data envelope.
	destID := bigcommerce.ObjInt64(res.Data, "id")
	destCust := sql.NullInt64{Int64: destCustomerID, Valid: destCustomerID > 0}
	if err := m.store.UpdateOrder(ctx, rec.SourceOrderID, models.MigrationStatusSuccess,
		"migrated", sql.NullInt64{Int64: destID, Valid: true}, destCust, string(debugJSON)); err != nil {
		return err
	}
	util.OrdersMigratedTotal.Inc()
	m.events.Publish(ctx, models.EventTypeOrderMigrated, order.ID, destID, "")
	m.logger.Info("Order migrated",
		zap.Int64("source_id", order.ID),
		zap.Int64("dest_id", destID),
		zap.Int("unmapped_items", unmapped))
	return nil
}

// resolveLineItems maps each source item to its destination catalog reference.
// Items whose product never migrated become custom line items with a sentinel
// SKU, preserving the order total without a catalog link.
func (m *OrderMigrator) resolveLineItems(ctx context.Context, items []models.SourceOrderItem) ([]bigcommerce.OrderLineItem, int, error) {
	var lineItems []bigcommerce.OrderLineItem
	unmapped := 0

	for _, item := range items {
		line := bigcommerce.OrderLineItem{Quantity: item.Quantity}

		resolved := false
		switch {
		case item.VariationID.Valid && item.ProductID.Valid:
			destProduct, destVariant, ok, err := m.store.ResolveDestVariant(ctx, item.ProductID.Int64, item.VariationID.Int64)
			if err != nil {
				return nil, 0, err
			}
			if ok {
				line.ProductID = destProduct
				line.VariantID = destVariant
				resolved = true
			}
		case item.ProductID.Valid:
			destProduct, ok, err := m.store.ResolveDestProduct(ctx, item.ProductID.Int64)
			if err != nil {
				return nil, 0, err
			}
			if ok {
				line.ProductID = destProduct
				resolved = true
			}
		}

		if !resolved {
			sourceID := int64(0)
			if item.ProductID.Valid {
				sourceID = item.ProductID.Int64
			}
			line.Name = item.Name
			line.SKU = fmt.Sprintf("WC-UNMAPPED-%d", sourceID)
			line.PriceIncTax = parsePrice(item.Price)
			line.PriceExTax = parsePrice(item.Price)
			unmapped++
		}

		lineItems = append(lineItems, line)
	}

	return lineItems, unmapped, nil
}

func buildOrderPayload(order *models.SourceOrder, destCustomerID int64, lineItems []bigcommerce.OrderLineItem) *bigcommerce.OrderPayload {
	billing := bigcommerce.OrderAddress{
		FirstName: order.BillingFirstName,
		LastName:  order.BillingLastName,
		Street1:   order.BillingAddress1,
		Street2:   order.BillingAddress2,
		City:      order.BillingCity,
		State:     order.BillingState,
		Zip:       order.BillingPostcode,
		Country:   order.BillingCountry,
		Email:     order.BillingEmail,
		Phone:     order.BillingPhone,
	}

	payload := &bigcommerce.OrderPayload{
		StatusID:       DestinationStatusID(order.Status),
		CustomerID:     destCustomerID,
		DateCreated:    order.OrderDate.Format(time.RFC1123Z),
		BillingAddress: billing,
		Products:       lineItems,
		StaffNotes: fmt.Sprintf("Migrated from source order %d. Payment: %s",
			order.ID, order.PaymentMethodTitle),
	}

	if order.ShippingAddress1 != "" {
		payload.ShippingAddress = []bigcommerce.OrderAddress{{
			FirstName: order.ShippingFirstName,
			LastName:  order.ShippingLastName,
			Street1:   order.ShippingAddress1,
			Street2:   order.ShippingAddress2,
			City:      order.ShippingCity,
			State:     order.ShippingState,
			Zip:       order.ShippingPostcode,
			Country:   order.ShippingCountry,
		}}
	}

	return payload
}

func (m *OrderMigrator) fail(ctx context.Context, sourceOrderID int64, message, migrationData string) error {
	util.OrdersFailedTotal.WithLabelValues("migration_error").Inc()
	m.events.Publish(ctx, models.EventTypeOrderFailed, sourceOrderID, 0, message)
	m.logger.Warn("Order migration failed",
		zap.Int64("source_id", sourceOrderID),
		zap.String("message", message))
	if err := m.store.UpdateOrder(ctx, sourceOrderID, models.MigrationStatusError, message,
		sql.NullInt64{}, sql.NullInt64{}, migrationData); err != nil {
		return err
	}
	return fmt.Errorf("order %d: %s", sourceOrderID, message)
}
