package migrate

import (
	"context"
	"net/http"
	"strconv"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/mapping"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// BrandMigrator creates destination brands and rebuilds the brand mapping.
type BrandMigrator struct {
	store    *store.Store
	client   Requester
	mappings *mapping.Repo
	logger   *zap.Logger
}

// NewBrandMigrator creates a brand migrator.
func NewBrandMigrator(st *store.Store, client Requester, mappings *mapping.Repo) *BrandMigrator {
	return &BrandMigrator{
		store:    st,
		client:   client,
		mappings: mappings,
		logger:   util.GetLogger(),
	}
}

// Migrate creates one destination brand per source brand term.
func (m *BrandMigrator) Migrate(ctx context.Context) (*OneShotResult, error) {
	ctx, span := util.StartSpan(ctx, "BrandMigrator.Migrate")
	defer span.End()

	brands, err := m.store.GetSourceBrands(ctx)
	if err != nil {
		return nil, err
	}

	result := &OneShotResult{}
	destIDs := make(map[string]int64)

	for _, brand := range brands {
		res, err := m.client.Request(ctx, http.MethodPost, "v3/catalog/brands",
			bigcommerce.BrandPayload{Name: brand.Name})
		if err != nil {
			return nil, err
		}
		if res.Failed() {
			m.logger.Warn("Brand migration failed",
				zap.String("brand", brand.Name),
				zap.String("error", res.Error))
			result.Failed++
			continue
		}

		destIDs[strconv.FormatInt(brand.ID, 10)] = bigcommerce.ObjInt64(res.DataObject(), "id")
		result.Migrated++
	}

	if err := m.mappings.ReplaceAll(ctx, models.MappingBrand, destIDs); err != nil {
		return nil, err
	}

	m.logger.Info("Brand migration finished",
		zap.Int("migrated", result.Migrated),
		zap.Int("failed", result.Failed))
	return result, nil
}
