package mapping

import (
	"context"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/redisclient"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// Lookup resolves a source key of one mapping kind to a destination id.
// Preparers depend on this interface so tests can substitute fixtures.
type Lookup interface {
	Get(ctx context.Context, kind, sourceKey string) (int64, bool, error)
}

// Repo is the persisted mapping repository with a Redis read-through cache.
// The cache is optional; a nil client degrades to DB-only lookups.
type Repo struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewRepo creates a mapping repository.
func NewRepo(st *store.Store, cache *redisclient.Client) *Repo {
	return &Repo{
		store:  st,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Get resolves one mapping entry, consulting the cache first.
func (r *Repo) Get(ctx context.Context, kind, sourceKey string) (int64, bool, error) {
	if r.cache != nil {
		destID, ok, err := r.cache.GetCachedMapping(ctx, kind, sourceKey)
		if err != nil {
			r.logger.Warn("Mapping cache read failed, falling back to DB",
				zap.String("kind", kind),
				zap.Error(err))
		} else if ok {
			return destID, true, nil
		}
	}

	destID, ok, err := r.store.GetMapping(ctx, kind, sourceKey)
	if err != nil || !ok {
		return 0, false, err
	}

	if r.cache != nil {
		if err := r.cache.SetCachedMapping(ctx, kind, sourceKey, destID); err != nil {
			r.logger.Warn("Mapping cache backfill failed",
				zap.String("kind", kind),
				zap.Error(err))
		}
	}
	return destID, true, nil
}

// ReplaceAll overwrites one mapping table in the DB and refreshes the cache.
func (r *Repo) ReplaceAll(ctx context.Context, kind string, mappings map[string]int64) error {
	if err := r.store.ReplaceMappings(ctx, kind, mappings); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.CacheMappings(ctx, kind, mappings); err != nil {
			r.logger.Warn("Mapping cache refresh failed",
				zap.String("kind", kind),
				zap.Error(err))
		}
	}

	r.logger.Info("Mapping table replaced",
		zap.String("kind", kind),
		zap.Int("entries", len(mappings)))
	return nil
}

// Count reports how many entries one mapping kind has persisted.
func (r *Repo) Count(ctx context.Context, kind string) (int, error) {
	return r.store.CountMappings(ctx, kind)
}
