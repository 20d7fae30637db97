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

// CategoryMigrator rebuilds the destination category tree and the
// category-id mapping table in one shot.
type CategoryMigrator struct {
	store    *store.Store
	client   Requester
	mappings *mapping.Repo
	logger   *zap.Logger
}

// NewCategoryMigrator creates a category migrator.
func NewCategoryMigrator(st *store.Store, client Requester, mappings *mapping.Repo) *CategoryMigrator {
	return &CategoryMigrator{
		store:    st,
		client:   client,
		mappings: mappings,
		logger:   util.GetLogger(),
	}
}

// Migrate walks the source category hierarchy top-down, creating each node on
// the destination with its freshly created parent id. A failed node's subtree
// is left unmigrated (each descendant will surface its own missing-parent
// failure on a later run); siblings keep going.
func (m *CategoryMigrator) Migrate(ctx context.Context) (*OneShotResult, error) {
	ctx, span := util.StartSpan(ctx, "CategoryMigrator.Migrate")
	defer span.End()

	categories, err := m.store.GetSourceCategories(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[int64][]models.SourceCategory)
	for _, cat := range categories {
		children[cat.ParentID] = append(children[cat.ParentID], cat)
	}

	result := &OneShotResult{}
	processed := make(map[int64]bool)
	destIDs := make(map[string]int64)

	for _, root := range children[0] {
		m.migrateNode(ctx, root, 0, children, processed, destIDs, result)
	}

	if err := m.mappings.ReplaceAll(ctx, models.MappingCategory, destIDs); err != nil {
		return nil, err
	}

	m.logger.Info("Category migration finished",
		zap.Int("migrated", result.Migrated),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (m *CategoryMigrator) migrateNode(ctx context.Context, cat models.SourceCategory, destParentID int64, children map[int64][]models.SourceCategory, processed map[int64]bool, destIDs map[string]int64, result *OneShotResult) {
	// Guards against cycles and duplicate membership within this run only.
	if processed[cat.ID] {
		return
	}
	processed[cat.ID] = true

	payload := bigcommerce.CategoryPayload{
		Name:        cat.Name,
		ParentID:    destParentID,
		Description: cat.Description,
		IsVisible:   true,
	}

	res, err := m.client.Request(ctx, http.MethodPost, "v3/catalog/categories", payload)
	if err != nil {
		m.logger.Error("Category request could not be built", zap.Int64("category_id", cat.ID), zap.Error(err))
		result.Failed++
		return
	}
	if res.Failed() {
		m.logger.Warn("Category migration failed",
			zap.Int64("category_id", cat.ID),
			zap.String("name", cat.Name),
			zap.String("error", res.Error))
		result.Failed++
		return
	}

	destID := bigcommerce.ObjInt64(res.DataObject(), "id")
	destIDs[strconv.FormatInt(cat.ID, 10)] = destID
	result.Migrated++

	for _, child := range children[cat.ID] {
		m.migrateNode(ctx, child, destID, children, processed, destIDs, result)
	}
}
