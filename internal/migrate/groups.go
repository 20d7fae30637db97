package migrate

import (
	"context"
	"net/http"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/mapping"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// Customer roles with elevated (wholesale) pricing get their own price list.
var pricedRoles = map[string]string{
	"wholesale": "Wholesale Pricing",
	"b2b":       "B2B Pricing",
}

func groupNameForRole(role string) string {
	switch role {
	case "wholesale":
		return "Wholesale"
	case "b2b":
		return "B2B"
	default:
		return "Retail"
	}
}

// GroupMigrator creates destination customer groups for every distinct
// customer type in the source store and rebuilds the role -> group mapping.
// Group assignment is mandatory on the destination side, so customer
// migration hard-fails on roles this run did not map.
type GroupMigrator struct {
	store    *store.Store
	client   Requester
	mappings *mapping.Repo
	logger   *zap.Logger
}

// NewGroupMigrator creates a customer-group migrator.
func NewGroupMigrator(st *store.Store, client Requester, mappings *mapping.Repo) *GroupMigrator {
	return &GroupMigrator{
		store:    st,
		client:   client,
		mappings: mappings,
		logger:   util.GetLogger(),
	}
}

// Migrate creates one destination group per distinct source customer type.
func (m *GroupMigrator) Migrate(ctx context.Context) (*OneShotResult, error) {
	ctx, span := util.StartSpan(ctx, "GroupMigrator.Migrate")
	defer span.End()

	customers, err := m.store.GetSourceCustomers(ctx)
	if err != nil {
		return nil, err
	}

	roles := make(map[string]bool)
	for _, c := range customers {
		if c.CustomerType != "" {
			roles[c.CustomerType] = true
		}
	}

	result := &OneShotResult{}
	destIDs := make(map[string]int64)

	for role := range roles {
		res, err := m.client.Request(ctx, http.MethodPost, "v2/customer_groups",
			bigcommerce.CustomerGroupPayload{Name: groupNameForRole(role)})
		if err != nil {
			return nil, err
		}
		if res.Failed() {
			m.logger.Warn("Customer group migration failed",
				zap.String("role", role),
				zap.String("error", res.Error))
			result.Failed++
			continue
		}

		destIDs[role] = bigcommerce.ObjInt64(res.DataObject(), "id")
		result.Migrated++
	}

	if err := m.mappings.ReplaceAll(ctx, models.MappingCustomerGroup, destIDs); err != nil {
		return nil, err
	}

	m.logger.Info("Customer group migration finished",
		zap.Int("migrated", result.Migrated),
		zap.Int("failed", result.Failed))
	return result, nil
}

// PriceListMigrator creates destination price lists for roles with elevated
// pricing and rebuilds the role -> price list mapping.
type PriceListMigrator struct {
	client   Requester
	mappings *mapping.Repo
	logger   *zap.Logger
}

// NewPriceListMigrator creates a price-list migrator.
func NewPriceListMigrator(client Requester, mappings *mapping.Repo) *PriceListMigrator {
	return &PriceListMigrator{
		client:   client,
		mappings: mappings,
		logger:   util.GetLogger(),
	}
}

// Migrate creates one price list per priced role.
func (m *PriceListMigrator) Migrate(ctx context.Context) (*OneShotResult, error) {
	ctx, span := util.StartSpan(ctx, "PriceListMigrator.Migrate")
	defer span.End()

	result := &OneShotResult{}
	destIDs := make(map[string]int64)

	for role, name := range pricedRoles {
		res, err := m.client.Request(ctx, http.MethodPost, "v3/pricelists",
			bigcommerce.PriceListPayload{Name: name, Active: true})
		if err != nil {
			return nil, err
		}
		if res.Failed() {
			m.logger.Warn("Price list migration failed",
				zap.String("role", role),
				zap.String("error", res.Error))
			result.Failed++
			continue
		}

		destIDs[role] = bigcommerce.ObjInt64(res.DataObject(), "id")
		result.Migrated++
	}

	if err := m.mappings.ReplaceAll(ctx, models.MappingPriceList, destIDs); err != nil {
		return nil, err
	}

	m.logger.Info("Price list migration finished",
		zap.Int("migrated", result.Migrated),
		zap.Int("failed", result.Failed))
	return result, nil
}
