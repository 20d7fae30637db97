package verify

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/broker"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/migrate"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// Engine reconciles migrated products against the destination store and heals
// what it safely can: missing variants get created, wiped prices and weights
// get restored, drifted fields get reported.
type Engine struct {
	store  *store.Store
	client migrate.Requester
	events *broker.EventPublisher
	delay  time.Duration
	logger *zap.Logger
}

// WeightBatchResult reports one weight-only pass invocation.
type WeightBatchResult struct {
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
}

// NewEngine creates a verification engine.
func NewEngine(st *store.Store, client migrate.Requester, events *broker.EventPublisher, delay time.Duration) *Engine {
	return &Engine{
		store:  st,
		client: client,
		events: events,
		delay:  delay,
		logger: util.GetLogger(),
	}
}

// Init makes sure the ledger schema, verification tables included, exists.
func (e *Engine) Init(ctx context.Context) error {
	return e.store.EnsureSchema(ctx)
}

// Populate seeds one pending verification row per successfully migrated unit.
// Re-runnable; existing rows are skipped.
func (e *Engine) Populate(ctx context.Context) (*migrate.PrepareResult, error) {
	ctx, span := util.StartSpan(ctx, "verify.Populate")
	defer span.End()

	units, err := e.store.ListSuccessfulUnits(ctx)
	if err != nil {
		return nil, err
	}

	result := &migrate.PrepareResult{}
	for _, rec := range units {
		if !rec.DestParentID.Valid {
			continue
		}
		inserted, err := e.store.InsertVerificationIfAbsent(ctx, rec.Unit(),
			rec.DestParentID.Int64, rec.DestVariantID)
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
	e.logger.Info("Verification ledger populated",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// VerifyBatch advances up to batchSize pending verification rows.
func (e *Engine) VerifyBatch(ctx context.Context, batchSize int) (*migrate.BatchResult, error) {
	ctx, span := util.StartSpan(ctx, "verify.VerifyBatch")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BatchDuration.WithLabelValues("verification").Observe(time.Since(start).Seconds())
	}()

	recs, err := e.store.ListPendingVerifications(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	result := &migrate.BatchResult{}
	for _, rec := range recs {
		if err := e.verifyOne(ctx, rec); err != nil {
			result.Errors++
		} else {
			result.Processed++
		}
		time.Sleep(e.delay)
	}

	result.Remaining, err = e.store.CountPendingVerifications(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RetryFailed bulk-returns up to batchSize failed rows to pending and runs one
// batch over them. Verified rows stay verified.
func (e *Engine) RetryFailed(ctx context.Context, batchSize int) (*migrate.BatchResult, error) {
	reset, err := e.store.ResetFailedVerifications(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Failed verifications reset to pending", zap.Int("count", reset))
	return e.VerifyBatch(ctx, batchSize)
}

// Stats reports verification ledger counts per status.
func (e *Engine) Stats(ctx context.Context) (*models.VerificationStats, error) {
	return e.store.VerificationStats(ctx)
}

// UpdateWeightsBatch runs the weight-only pass over up to batchSize parent
// rows it has not visited yet. Rows are marked visited even when the remote
// update fails, so repeated polling always converges; failures are counted
// and logged, and a later full verification pass picks them up.
func (e *Engine) UpdateWeightsBatch(ctx context.Context, batchSize int) (*WeightBatchResult, error) {
	ctx, span := util.StartSpan(ctx, "verify.UpdateWeightsBatch")
	defer span.End()

	recs, err := e.store.ListWeightPending(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	result := &WeightBatchResult{}
	for _, rec := range recs {
		if err := e.syncWeight(ctx, rec); err != nil {
			e.logger.Warn("Weight sync failed",
				zap.Int64("source_id", rec.SourceParentID),
				zap.Error(err))
			result.Failed++
		} else {
			result.Updated++
		}
		if err := e.store.MarkWeightSynced(ctx, rec.ID); err != nil {
			return nil, err
		}
		time.Sleep(e.delay)
	}

	result.Remaining, err = e.store.CountWeightPending(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) syncWeight(ctx context.Context, rec models.VerificationRecord) error {
	src, err := e.store.GetSourceProduct(ctx, rec.SourceParentID)
	if err != nil {
		return err
	}
	weight, ok := migrate.NormalizeWeight(src.Weight)
	if !ok || weight.Ounces == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("v3/catalog/products/%d", rec.DestParentID)
	res, err := e.client.Request(ctx, http.MethodPut, endpoint,
		map[string]interface{}{"weight": weight.Ounces})
	if err != nil {
		return err
	}
	if res.Failed() {
		return fmt.Errorf("%s", res.Error)
	}
	util.VerificationFixesTotal.WithLabelValues("weight").Inc()
	return nil
}

func (e *Engine) verifyOne(ctx context.Context, rec models.VerificationRecord) error {
	unit := rec.Unit()

	var err error
	switch {
	case unit.IsParent():
		err = e.verifyParent(ctx, rec)
	case !rec.DestVariantID.Valid:
		err = e.healMissingVariant(ctx, rec)
	default:
		err = e.verifyVariant(ctx, rec)
	}
	if err != nil {
		return e.fail(ctx, rec, err.Error())
	}
	return nil
}

func (e *Engine) verifyParent(ctx context.Context, rec models.VerificationRecord) error {
	src, err := e.store.GetSourceProduct(ctx, rec.SourceParentID)
	if err != nil {
		return err
	}

	variationCount := 0
	if src.IsVariable() {
		variations, err := e.store.GetSourceVariations(ctx, src.ID)
		if err != nil {
			return err
		}
		variationCount = len(variations)
	}

	supplier, _, err := e.store.GetProductSupplier(ctx, src.ID)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("v3/catalog/products/%d?include=custom_fields", rec.DestParentID)
	res, err := e.client.Request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if res.Failed() {
		return fmt.Errorf("failed to fetch destination product %d: %s", rec.DestParentID, res.Error)
	}

	fixes := DiffProduct(src, variationCount, res.DataObject(), supplier)
	if err := e.applyProductFixes(ctx, rec.DestParentID, fixes); err != nil {
		return err
	}
	return e.finish(ctx, rec, fixes)
}

func (e *Engine) verifyVariant(ctx context.Context, rec models.VerificationRecord) error {
	src, err := e.store.GetSourceVariation(ctx, rec.SourceVariantID.Int64)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("v3/catalog/products/%d/variants/%d",
		rec.DestParentID, rec.DestVariantID.Int64)
	res, err := e.client.Request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if res.Failed() {
		return fmt.Errorf("failed to fetch destination variant %d: %s",
			rec.DestVariantID.Int64, res.Error)
	}

	fixes := DiffVariant(src, res.DataObject())
	if len(fixes.Updates) > 0 {
		updRes, err := e.client.Request(ctx, http.MethodPut, endpoint, fixes.Updates)
		if err != nil {
			return err
		}
		if updRes.Failed() {
			return fmt.Errorf("failed to apply variant fixes: %s", updRes.Error)
		}
		for field := range fixes.Updates {
			util.VerificationFixesTotal.WithLabelValues(field).Inc()
		}
	}
	return e.finish(ctx, rec, fixes)
}

// healMissingVariant handles the one structural defect verification repairs:
// a variation whose migration recorded a parent but lost the variant. The
// variant is created against the parent's existing destination options.
func (e *Engine) healMissingVariant(ctx context.Context, rec models.VerificationRecord) error {
	src, err := e.store.GetSourceVariation(ctx, rec.SourceVariantID.Int64)
	if err != nil {
		return err
	}

	optionValues, err := migrate.FetchProductOptionValues(ctx, e.client, rec.DestParentID)
	if err != nil {
		return err
	}

	payload, perr := migrate.PrepareVariant(src, optionValues)
	if perr != nil {
		return perr
	}

	endpoint := fmt.Sprintf("v3/catalog/products/%d/variants", rec.DestParentID)
	res, err := e.client.Request(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return err
	}
	if res.Failed() {
		return fmt.Errorf("failed to create missing variant: %s", res.Error)
	}

	destVariantID := bigcommerce.ObjInt64(res.DataObject(), "id")
	if err := e.store.SetVerificationDestVariant(ctx, rec.ID, destVariantID); err != nil {
		return err
	}
	if err := e.store.UpdateUnit(ctx, rec.Unit(), models.MigrationStatusSuccess, "variant created during verification",
		nullInt64(rec.DestParentID), nullInt64(destVariantID)); err != nil {
		return err
	}

	util.VerificationFixesTotal.WithLabelValues("missing_variant").Inc()
	util.VerificationsTotal.WithLabelValues("verified").Inc()
	e.events.Publish(ctx, models.EventTypeEntityVerified, rec.SourceVariantID.Int64, destVariantID,
		"missing variant created")
	return e.store.UpdateVerification(ctx, rec.ID, models.VerificationStatusVerified,
		"missing variant created")
}

func (e *Engine) applyProductFixes(ctx context.Context, destProductID int64, fixes *FixSet) error {
	if len(fixes.Updates) > 0 {
		endpoint := fmt.Sprintf("v3/catalog/products/%d", destProductID)
		res, err := e.client.Request(ctx, http.MethodPut, endpoint, fixes.Updates)
		if err != nil {
			return err
		}
		if res.Failed() {
			return fmt.Errorf("failed to apply product fixes: %s", res.Error)
		}
		for field := range fixes.Updates {
			util.VerificationFixesTotal.WithLabelValues(field).Inc()
		}
	}

	switch fixes.Supplier.Action {
	case SupplierCreate:
		endpoint := fmt.Sprintf("v3/catalog/products/%d/custom-fields", destProductID)
		res, err := e.client.Request(ctx, http.MethodPost, endpoint,
			bigcommerce.CustomFieldPayload{Name: "Supplier", Value: fixes.Supplier.Value})
		if err != nil {
			return err
		}
		if res.Failed() {
			return fmt.Errorf("failed to create supplier field: %s", res.Error)
		}
		util.VerificationFixesTotal.WithLabelValues("supplier").Inc()
	case SupplierUpdate:
		endpoint := fmt.Sprintf("v3/catalog/products/%d/custom-fields/%d",
			destProductID, fixes.Supplier.FieldID)
		res, err := e.client.Request(ctx, http.MethodPut, endpoint,
			bigcommerce.CustomFieldPayload{Name: "Supplier", Value: fixes.Supplier.Value})
		if err != nil {
			return err
		}
		if res.Failed() {
			return fmt.Errorf("failed to update supplier field: %s", res.Error)
		}
		util.VerificationFixesTotal.WithLabelValues("supplier").Inc()
	}

	return nil
}

// finish records the terminal status for one verification. Drift issues are
// carried in the message only; the failed status is reserved for the fetch and
// fix-apply errors that go through fail.
func (e *Engine) finish(ctx context.Context, rec models.VerificationRecord, fixes *FixSet) error {
	status, message := verificationOutcome(fixes)

	util.VerificationsTotal.WithLabelValues("verified").Inc()
	e.events.Publish(ctx, models.EventTypeEntityVerified, rec.SourceParentID, rec.DestParentID, message)
	if len(fixes.Issues) > 0 {
		e.logger.Warn("Unit verified with open issues",
			zap.String("unit", rec.Unit().String()),
			zap.String("message", message))
	} else {
		e.logger.Info("Unit verified",
			zap.String("unit", rec.Unit().String()),
			zap.String("message", message))
	}
	return e.store.UpdateVerification(ctx, rec.ID, status, message)
}

func (e *Engine) fail(ctx context.Context, rec models.VerificationRecord, message string) error {
	util.VerificationsTotal.WithLabelValues("failed").Inc()
	e.events.Publish(ctx, models.EventTypeVerificationFailed, rec.SourceParentID, rec.DestParentID, message)
	e.logger.Warn("Verification failed",
		zap.String("unit", rec.Unit().String()),
		zap.String("message", message))
	if err := e.store.UpdateVerification(ctx, rec.ID, models.VerificationStatusFailed, message); err != nil {
		return err
	}
	return fmt.Errorf("%s: %s", rec.Unit(), message)
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
