package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/broker"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/mapping"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// ProductMigrator advances the product ledger: parent products first, their
// variations as a side effect, each unit with its own independent outcome row.
type ProductMigrator struct {
	store    *store.Store
	client   Requester
	mappings mapping.Lookup
	events   *broker.EventPublisher
	excluded map[string]bool
	delay    time.Duration
	logger   *zap.Logger
}

// NewProductMigrator creates a product migrator.
func NewProductMigrator(st *store.Store, client Requester, mappings mapping.Lookup, events *broker.EventPublisher, excludedSlugs []string, delay time.Duration) *ProductMigrator {
	excluded := make(map[string]bool, len(excludedSlugs))
	for _, slug := range excludedSlugs {
		excluded[slug] = true
	}
	return &ProductMigrator{
		store:    st,
		client:   client,
		mappings: mappings,
		events:   events,
		excluded: excluded,
		delay:    delay,
		logger:   util.GetLogger(),
	}
}

// Prepare scans the source catalog and seeds one pending ledger row per
// product and per variation. Safe to re-run: existing rows are skipped.
func (m *ProductMigrator) Prepare(ctx context.Context) (*PrepareResult, error) {
	ctx, span := util.StartSpan(ctx, "ProductMigrator.Prepare")
	defer span.End()

	products, err := m.store.GetSourceProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source products: %w", err)
	}

	result := &PrepareResult{}
	for _, product := range products {
		inserted, err := m.store.InsertUnitIfAbsent(ctx, models.ParentUnit(product.ID))
		if err != nil {
			return nil, err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}

		if !product.IsVariable() {
			continue
		}
		variations, err := m.store.GetSourceVariations(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		for _, v := range variations {
			inserted, err := m.store.InsertUnitIfAbsent(ctx, models.VariantUnit(product.ID, v.ID))
			if err != nil {
				return nil, err
			}
			if inserted {
				result.Inserted++
			} else {
				result.Skipped++
			}
		}
	}

	result.Total = result.Inserted + result.Skipped
	m.logger.Info("Product ledger prepared",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// ProcessBatch advances up to batchSize pending parent rows (variations ride
// along with their parent), then pending variant rows orphaned by an earlier
// parent success. Always bounded, always returns promptly.
func (m *ProductMigrator) ProcessBatch(ctx context.Context, batchSize int) (*BatchResult, error) {
	ctx, span := util.StartSpan(ctx, "ProductMigrator.ProcessBatch")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BatchDuration.WithLabelValues("products").Observe(time.Since(start).Seconds())
	}()

	result := &BatchResult{}

	parents, err := m.store.ListPendingParents(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	for _, rec := range parents {
		if err := m.migrateParent(ctx, rec); err != nil {
			result.Errors++
		} else {
			result.Processed++
		}
		time.Sleep(m.delay)
	}

	if len(parents) < batchSize {
		orphans, err := m.store.ListPendingOrphanVariants(ctx, batchSize-len(parents))
		if err != nil {
			return nil, err
		}
		for _, rec := range orphans {
			if err := m.migrateOrphanVariant(ctx, rec); err != nil {
				result.Errors++
			} else {
				result.Processed++
			}
			time.Sleep(m.delay)
		}
	}

	result.Remaining, err = m.store.CountRemainingProducts(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RetryErrors returns up to batchSize error rows to pending, then runs one
// normal batch over them.
func (m *ProductMigrator) RetryErrors(ctx context.Context, batchSize int) (*BatchResult, error) {
	reset, err := m.store.ResetProductErrors(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Product errors reset to pending", zap.Int("count", reset))
	return m.ProcessBatch(ctx, batchSize)
}

// Stats reports ledger counts split by parent vs. variant rows.
func (m *ProductMigrator) Stats(ctx context.Context) (*models.ProductStats, error) {
	return m.store.ProductStats(ctx)
}

// ListFailed returns error rows for operator triage.
func (m *ProductMigrator) ListFailed(ctx context.Context, limit int) ([]models.MigrationRecord, error) {
	return m.store.ListFailedProducts(ctx, limit)
}

func (m *ProductMigrator) migrateParent(ctx context.Context, rec models.MigrationRecord) error {
	unit := rec.Unit()

	product, err := m.store.GetSourceProduct(ctx, rec.SourceParentID)
	if err != nil {
		return m.failUnit(ctx, unit, models.EventTypeProductFailed, err.Error())
	}

	input, err := m.resolveProductInput(ctx, product)
	if err != nil {
		return m.failUnit(ctx, unit, models.EventTypeProductFailed, err.Error())
	}

	payload, perr := PrepareProduct(input)
	if perr != nil {
		return m.failUnit(ctx, unit, models.EventTypeProductFailed, perr.Error())
	}

	res, err := m.client.Request(ctx, http.MethodPost, "v3/catalog/products", payload)
	if err != nil {
		return err
	}
	if res.Failed() {
		return m.failUnit(ctx, unit, models.EventTypeProductFailed, res.Error)
	}

	destID := bigcommerce.ObjInt64(res.DataObject(), "id")
	if err := m.store.UpdateUnit(ctx, unit, models.MigrationStatusSuccess, "migrated",
		sql.NullInt64{Int64: destID, Valid: true}, sql.NullInt64{}); err != nil {
		return err
	}
	util.ProductsMigratedTotal.Inc()
	m.events.Publish(ctx, models.EventTypeProductMigrated, product.ID, destID, "")
	m.logger.Info("Product migrated",
		zap.Int64("source_id", product.ID),
		zap.Int64("dest_id", destID))

	if product.IsVariable() {
		m.migrateVariants(ctx, product, destID)
	}
	return nil
}

// migrateVariants creates the parent's options (only values actually used by
// real variations), then each variant. Every variant outcome is persisted on
// its own ledger row; a failed variant never rolls back its siblings.
func (m *ProductMigrator) migrateVariants(ctx context.Context, product *models.SourceProduct, destProductID int64) {
	variations, err := m.store.GetSourceVariations(ctx, product.ID)
	if err != nil {
		m.logger.Error("Failed to load variations",
			zap.Int64("product_id", product.ID),
			zap.Error(err))
		return
	}

	optionValues, err := m.createProductOptions(ctx, product, destProductID, variations)
	if err != nil {
		m.logger.Error("Failed to create product options",
			zap.Int64("product_id", product.ID),
			zap.Error(err))
		// Variants cannot resolve without options; each gets its own error row.
		for _, v := range variations {
			_ = m.failUnit(ctx, models.VariantUnit(product.ID, v.ID),
				models.EventTypeVariantFailed, fmt.Sprintf("options unavailable: %v", err))
		}
		return
	}

	for _, v := range variations {
		variation := v
		unit := models.VariantUnit(product.ID, variation.ID)

		payload, perr := PrepareVariant(&variation, optionValues)
		if perr != nil {
			_ = m.failUnit(ctx, unit, models.EventTypeVariantFailed, perr.Error())
			continue
		}

		endpoint := fmt.Sprintf("v3/catalog/products/%d/variants", destProductID)
		res, err := m.client.Request(ctx, http.MethodPost, endpoint, payload)
		if err != nil || res.Failed() {
			_ = m.failUnit(ctx, unit, models.EventTypeVariantFailed, requestFailureMessage(res, err))
			continue
		}

		destVariantID := bigcommerce.ObjInt64(res.DataObject(), "id")
		if err := m.store.UpdateUnit(ctx, unit, models.MigrationStatusSuccess, "migrated",
			sql.NullInt64{Int64: destProductID, Valid: true},
			sql.NullInt64{Int64: destVariantID, Valid: true}); err != nil {
			m.logger.Error("Failed to record variant success", zap.Error(err))
			continue
		}
		util.VariantsMigratedTotal.Inc()
		m.events.Publish(ctx, models.EventTypeVariantMigrated, variation.ID, destVariantID, "")
	}
}

// migrateOrphanVariant reprocesses one pending variant whose parent already
// succeeded, fetching the parent's existing options from the destination.
func (m *ProductMigrator) migrateOrphanVariant(ctx context.Context, rec models.MigrationRecord) error {
	unit := rec.Unit()

	parent, err := m.store.GetUnit(ctx, models.ParentUnit(rec.SourceParentID))
	if err != nil {
		return err
	}
	if parent == nil || !parent.DestParentID.Valid {
		return m.failUnit(ctx, unit, models.EventTypeVariantFailed, "parent has no destination product")
	}
	destProductID := parent.DestParentID.Int64

	variation, err := m.store.GetSourceVariation(ctx, rec.SourceVariantID.Int64)
	if err != nil {
		return m.failUnit(ctx, unit, models.EventTypeVariantFailed, err.Error())
	}

	optionValues, err := FetchProductOptionValues(ctx, m.client, destProductID)
	if err != nil {
		return m.failUnit(ctx, unit, models.EventTypeVariantFailed, err.Error())
	}

	payload, perr := PrepareVariant(variation, optionValues)
	if perr != nil {
		return m.failUnit(ctx, unit, models.EventTypeVariantFailed, perr.Error())
	}

	endpoint := fmt.Sprintf("v3/catalog/products/%d/variants", destProductID)
	res, err := m.client.Request(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return err
	}
	if res.Failed() {
		return m.failUnit(ctx, unit, models.EventTypeVariantFailed, res.Error)
	}

	destVariantID := bigcommerce.ObjInt64(res.DataObject(), "id")
	if err := m.store.UpdateUnit(ctx, unit, models.MigrationStatusSuccess, "migrated",
		sql.NullInt64{Int64: destProductID, Valid: true},
		sql.NullInt64{Int64: destVariantID, Valid: true}); err != nil {
		return err
	}
	util.VariantsMigratedTotal.Inc()
	m.events.Publish(ctx, models.EventTypeVariantMigrated, variation.ID, destVariantID, "")
	return nil
}

// createProductOptions creates one destination option per attribute that real
// variations actually use, filtered to the used values only. Returns the
// "slug=term" -> option value reference map variant creation needs.
func (m *ProductMigrator) createProductOptions(ctx context.Context, product *models.SourceProduct, destProductID int64, variations []models.SourceVariation) (map[string]bigcommerce.VariantOptionValue, error) {
	used := make(map[string]map[string]bool)
	for _, v := range variations {
		for slug, term := range v.Attributes {
			if m.excluded[slug] {
				continue
			}
			if used[slug] == nil {
				used[slug] = make(map[string]bool)
			}
			used[slug][term] = true
		}
	}

	slugs := make([]string, 0, len(used))
	for slug := range used {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	values := make(map[string]bigcommerce.VariantOptionValue)
	for _, slug := range slugs {
		terms := make([]string, 0, len(used[slug]))
		for term := range used[slug] {
			terms = append(terms, term)
		}
		sort.Strings(terms)

		optionType := "dropdown"
		if isColorAttribute(slug) {
			optionType = "swatch"
		}
		payload := bigcommerce.OptionPayload{
			DisplayName:  attributeDisplayName(models.SourceAttribute{Slug: slug}),
			Type:         optionType,
			OptionValues: make([]bigcommerce.OptionValuePayload, 0, len(terms)),
		}
		for i, term := range terms {
			payload.OptionValues = append(payload.OptionValues, bigcommerce.OptionValuePayload{
				Label:     term,
				SortOrder: i,
			})
		}

		endpoint := fmt.Sprintf("v3/catalog/products/%d/options", destProductID)
		res, err := m.client.Request(ctx, http.MethodPost, endpoint, payload)
		if err != nil {
			return nil, err
		}
		if res.Failed() {
			return nil, fmt.Errorf("option %s: %s", slug, res.Error)
		}

		obj := res.DataObject()
		optionID := bigcommerce.ObjInt64(obj, "id")
		if optValues, ok := obj["option_values"].([]interface{}); ok {
			for _, ov := range optValues {
				value, ok := ov.(map[string]interface{})
				if !ok {
					continue
				}
				label := bigcommerce.ObjString(value, "label")
				values[slug+"="+label] = bigcommerce.VariantOptionValue{
					OptionID: optionID,
					ID:       bigcommerce.ObjInt64(value, "id"),
				}
			}
		}
	}
	return values, nil
}

// FetchProductOptionValues reads a destination product's existing options and
// rebuilds the "slug=term" reference map from their display names. Shared with
// the verification engine when it heals missing variants.
func FetchProductOptionValues(ctx context.Context, client Requester, destProductID int64) (map[string]bigcommerce.VariantOptionValue, error) {
	endpoint := fmt.Sprintf("v3/catalog/products/%d/options", destProductID)
	res, err := client.Request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, fmt.Errorf("failed to fetch options for product %d: %s", destProductID, res.Error)
	}

	values := make(map[string]bigcommerce.VariantOptionValue)
	for _, o := range res.DataArray() {
		option, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		optionID := bigcommerce.ObjInt64(option, "id")
		slug := displayNameToSlug(bigcommerce.ObjString(option, "display_name"))
		optValues, ok := option["option_values"].([]interface{})
		if !ok {
			continue
		}
		for _, ov := range optValues {
			value, ok := ov.(map[string]interface{})
			if !ok {
				continue
			}
			label := bigcommerce.ObjString(value, "label")
			values[slug+"="+label] = bigcommerce.VariantOptionValue{
				OptionID: optionID,
				ID:       bigcommerce.ObjInt64(value, "id"),
			}
		}
	}
	return values, nil
}

func (m *ProductMigrator) resolveProductInput(ctx context.Context, product *models.SourceProduct) (*ProductInput, error) {
	input := &ProductInput{Product: product}

	categoryIDs, err := m.store.GetProductCategoryIDs(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	for _, catID := range categoryIDs {
		destID, ok, err := m.mappings.Get(ctx, models.MappingCategory, strconv.FormatInt(catID, 10))
		if err != nil {
			return nil, err
		}
		if !ok {
			// Unmapped categories are dropped, not fatal: the product still
			// migrates, just less categorized.
			m.logger.Warn("Category mapping missing, skipping assignment",
				zap.Int64("product_id", product.ID),
				zap.Int64("category_id", catID))
			continue
		}
		input.CategoryIDs = append(input.CategoryIDs, destID)
	}

	if product.BrandID.Valid {
		destID, ok, err := m.mappings.Get(ctx, models.MappingBrand, strconv.FormatInt(product.BrandID.Int64, 10))
		if err != nil {
			return nil, err
		}
		if ok {
			input.BrandID = destID
		}
	}

	attrs, err := m.store.GetProductAttributes(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	for _, attr := range attrs {
		if m.excluded[attr.AttributeSlug] {
			input.PropertyAttributes = append(input.PropertyAttributes, attr)
		}
	}

	supplier, ok, err := m.store.GetProductSupplier(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		input.Supplier = supplier
	}

	return input, nil
}

func (m *ProductMigrator) failUnit(ctx context.Context, unit models.UnitRef, eventType, message string) error {
	sourceID := unit.ParentID
	if unit.IsParent() {
		util.ProductsFailedTotal.WithLabelValues("migration_error").Inc()
	} else {
		util.VariantsFailedTotal.Inc()
		sourceID = unit.VariantID.Int64
	}
	m.events.Publish(ctx, eventType, sourceID, 0, message)
	m.logger.Warn("Product unit failed",
		zap.String("unit", unit.String()),
		zap.String("message", message))
	if err := m.store.UpdateUnit(ctx, unit, models.MigrationStatusError, message, sql.NullInt64{}, sql.NullInt64{}); err != nil {
		return err
	}
	return fmt.Errorf("%s: %s", unit, message)
}
