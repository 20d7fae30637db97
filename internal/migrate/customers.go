package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/broker"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/mapping"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// CustomerMigrator advances the customer ledger batch by batch. Customer
// group assignment is mandatory, so a customer type with no group mapping is
// a per-row error, not a silent default.
type CustomerMigrator struct {
	store    *store.Store
	client   Requester
	mappings mapping.Lookup
	events   *broker.EventPublisher
	delay    time.Duration
	logger   *zap.Logger
}

// NewCustomerMigrator creates a customer migrator.
func NewCustomerMigrator(st *store.Store, client Requester, mappings mapping.Lookup, events *broker.EventPublisher, delay time.Duration) *CustomerMigrator {
	return &CustomerMigrator{
		store:    st,
		client:   client,
		mappings: mappings,
		events:   events,
		delay:    delay,
		logger:   util.GetLogger(),
	}
}

// Prepare seeds one pending ledger row per source customer. Re-runnable.
func (m *CustomerMigrator) Prepare(ctx context.Context) (*PrepareResult, error) {
	ctx, span := util.StartSpan(ctx, "CustomerMigrator.Prepare")
	defer span.End()

	customers, err := m.store.GetSourceCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source customers: %w", err)
	}

	result := &PrepareResult{}
	for _, c := range customers {
		inserted, err := m.store.InsertCustomerIfAbsent(ctx, c.ID, c.Email, c.CustomerType)
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
	m.logger.Info("Customer ledger prepared",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// ProcessBatch advances up to batchSize pending customers.
func (m *CustomerMigrator) ProcessBatch(ctx context.Context, batchSize int) (*BatchResult, error) {
	ctx, span := util.StartSpan(ctx, "CustomerMigrator.ProcessBatch")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BatchDuration.WithLabelValues("customers").Observe(time.Since(start).Seconds())
	}()

	recs, err := m.store.ListPendingCustomers(ctx, batchSize)
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

	result.Remaining, err = m.store.CountPendingCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RetryErrors returns up to batchSize error rows to pending and reprocesses.
func (m *CustomerMigrator) RetryErrors(ctx context.Context, batchSize int) (*BatchResult, error) {
	reset, err := m.store.ResetCustomerErrors(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Customer errors reset to pending", zap.Int("count", reset))
	return m.ProcessBatch(ctx, batchSize)
}

// Stats reports customer ledger counts per status.
func (m *CustomerMigrator) Stats(ctx context.Context) (*models.StatusCounts, error) {
	return m.store.CustomerStats(ctx)
}

// ListFailed returns error rows for operator triage.
func (m *CustomerMigrator) ListFailed(ctx context.Context, limit int) ([]models.CustomerMigrationRecord, error) {
	return m.store.ListFailedCustomers(ctx, limit)
}

func (m *CustomerMigrator) migrateOne(ctx context.Context, rec models.CustomerMigrationRecord) error {
	customer, err := m.store.GetSourceCustomer(ctx, rec.SourceUserID)
	if err != nil {
		return m.fail(ctx, rec.SourceUserID, err.Error())
	}

	groupID, ok, err := m.mappings.Get(ctx, models.MappingCustomerGroup, customer.CustomerType)
	if err != nil {
		return m.fail(ctx, rec.SourceUserID, err.Error())
	}
	if !ok {
		return m.fail(ctx, rec.SourceUserID,
			fmt.Sprintf("no customer group mapped for type %q, run customer-group migration first", customer.CustomerType))
	}

	payload, perr := PrepareCustomer(customer, groupID)
	if perr != nil {
		return m.fail(ctx, rec.SourceUserID, perr.Error())
	}

	// v3 customer creation takes an array and answers with an array.
	res, err := m.client.Request(ctx, http.MethodPost, "v3/customers",
		[]bigcommerce.CustomerPayload{*payload})
	if err != nil {
		return err
	}
	if res.Failed() {
		return m.fail(ctx, rec.SourceUserID, res.Error)
	}

	var destID int64
	if arr := res.DataArray(); len(arr) > 0 {
		if obj, ok := arr[0].(map[string]interface{}); ok {
			destID = bigcommerce.ObjInt64(obj, "id")
		}
	}
	if destID == 0 {
		return m.fail(ctx, rec.SourceUserID, "destination accepted the customer but returned no id")
	}

	if err := m.store.UpdateCustomer(ctx, rec.SourceUserID, models.MigrationStatusSuccess,
		"migrated", sql.NullInt64{Int64: destID, Valid: true}); err != nil {
		return err
	}
	util.CustomersMigratedTotal.Inc()
	m.events.Publish(ctx, models.EventTypeCustomerMigrated, rec.SourceUserID, destID, "")
	m.logger.Info("Customer migrated",
		zap.Int64("source_id", rec.SourceUserID),
		zap.Int64("dest_id", destID))
	return nil
}

func (m *CustomerMigrator) fail(ctx context.Context, sourceUserID int64, message string) error {
	util.CustomersFailedTotal.WithLabelValues("migration_error").Inc()
	m.events.Publish(ctx, models.EventTypeCustomerFailed, sourceUserID, 0, message)
	m.logger.Warn("Customer migration failed",
		zap.Int64("source_id", sourceUserID),
		zap.String("message", message))
	if err := m.store.UpdateCustomer(ctx, sourceUserID, models.MigrationStatusError, message, sql.NullInt64{}); err != nil {
		return err
	}
	return fmt.Errorf("customer %d: %s", sourceUserID, message)
}

// PrepareCustomer shapes one source customer into a destination payload.
// Email and a two-letter country code are hard requirements; everything else
// degrades gracefully.
func PrepareCustomer(c *models.SourceCustomer, groupID int64) (*bigcommerce.CustomerPayload, *PreparationError) {
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, prepErrorf("email", "customer %d has no usable email", c.ID)
	}

	payload := &bigcommerce.CustomerPayload{
		Email:           email,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Company:         c.Company,
		Phone:           c.Phone,
		CustomerGroupID: groupID,
	}

	if c.Address1 != "" {
		country := strings.ToUpper(strings.TrimSpace(c.CountryCode))
		if len(country) != 2 {
			return nil, prepErrorf("country_code",
				"customer %d address has invalid country code %q", c.ID, c.CountryCode)
		}
		payload.Addresses = []bigcommerce.CustomerAddressPayload{{
			FirstName:       c.FirstName,
			LastName:        c.LastName,
			Company:         c.Company,
			Address1:        c.Address1,
			Address2:        c.Address2,
			City:            c.City,
			StateOrProvince: c.State,
			PostalCode:      c.PostalCode,
			CountryCode:     country,
			Phone:           c.Phone,
		}}
	}

	return payload, nil
}
