package verify

import (
	"database/sql"
	"testing"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleProduct() *models.SourceProduct {
	return &models.SourceProduct{
		ID:          1,
		Name:        "Lavender Soap",
		SKU:         "SOAP-LAV",
		Price:       "12.50",
		Weight:      "120",
		ProductType: models.ProductTypeSimple,
	}
}

func cleanRemote() map[string]interface{} {
	return map[string]interface{}{
		"price":              12.50,
		"sku":                "SOAP-LAV",
		"name":               "Lavender Soap",
		"weight":             4.23,
		"inventory_tracking": "none",
	}
}

func TestDiffProductClean(t *testing.T) {
	fixes := DiffProduct(simpleProduct(), 0, cleanRemote(), "")
	assert.True(t, fixes.Clean())
}

func TestDiffProductRestoresZeroPrice(t *testing.T) {
	remote := cleanRemote()
	remote["price"] = 0.0

	fixes := DiffProduct(simpleProduct(), 0, remote, "")
	assert.Equal(t, 12.5, fixes.Updates["price"])
	assert.Contains(t, fixes.Applied, "price restored")
	assert.Empty(t, fixes.Issues)
}

func TestDiffProductReportsPriceDrift(t *testing.T) {
	// Both sides non-zero: could be a deliberate repricing, so report only.
	remote := cleanRemote()
	remote["price"] = 15.0

	fixes := DiffProduct(simpleProduct(), 0, remote, "")
	_, hasPriceUpdate := fixes.Updates["price"]
	assert.False(t, hasPriceUpdate)
	require.Len(t, fixes.Issues, 1)
	assert.Contains(t, fixes.Issues[0], "price differs")
}

func TestDiffProductCorrectsInventoryTracking(t *testing.T) {
	remote := cleanRemote()
	remote["inventory_tracking"] = "product"

	fixes := DiffProduct(simpleProduct(), 0, remote, "")
	assert.Equal(t, "none", fixes.Updates["inventory_tracking"])

	fixes = DiffProduct(simpleProduct(), 3, remote, "")
	assert.Equal(t, "variant", fixes.Updates["inventory_tracking"])
}

func TestDiffProductSyncsStock(t *testing.T) {
	src := simpleProduct()
	src.ManageStock = true
	src.StockQuantity = sql.NullInt64{Int64: 40, Valid: true}

	remote := cleanRemote()
	remote["inventory_tracking"] = "product"
	remote["inventory_level"] = 12.0

	fixes := DiffProduct(src, 0, remote, "")
	assert.Equal(t, int64(40), fixes.Updates["inventory_level"])
}

func TestDiffProductRestoresWeight(t *testing.T) {
	remote := cleanRemote()
	remote["weight"] = 0.0

	fixes := DiffProduct(simpleProduct(), 0, remote, "")
	assert.Equal(t, 4.23, fixes.Updates["weight"])
}

func TestDiffProductSupplierCreate(t *testing.T) {
	fixes := DiffProduct(simpleProduct(), 0, cleanRemote(), "Acme Imports")
	assert.Equal(t, SupplierCreate, fixes.Supplier.Action)
	assert.Equal(t, "Acme Imports", fixes.Supplier.Value)
}

func TestDiffProductSupplierUpdate(t *testing.T) {
	remote := cleanRemote()
	remote["custom_fields"] = []interface{}{
		map[string]interface{}{"id": float64(5), "name": "Supplier", "value": "Old Vendor"},
	}

	fixes := DiffProduct(simpleProduct(), 0, remote, "Acme Imports")
	assert.Equal(t, SupplierUpdate, fixes.Supplier.Action)
	assert.Equal(t, int64(5), fixes.Supplier.FieldID)
}

func TestDiffProductSupplierInPlace(t *testing.T) {
	remote := cleanRemote()
	remote["custom_fields"] = []interface{}{
		map[string]interface{}{"id": float64(5), "name": "Supplier", "value": "Acme Imports"},
	}

	fixes := DiffProduct(simpleProduct(), 0, remote, "Acme Imports")
	assert.Equal(t, SupplierNone, fixes.Supplier.Action)
	assert.True(t, fixes.Clean())
}

func TestVerificationOutcomeDriftStaysVerified(t *testing.T) {
	// Two non-zero prices that disagree produce an issue, not a failure:
	// the record must not churn through bulk retries forever.
	remote := cleanRemote()
	remote["price"] = 15.0
	fixes := DiffProduct(simpleProduct(), 0, remote, "")
	require.NotEmpty(t, fixes.Issues)
	require.Empty(t, fixes.Updates)

	status, message := verificationOutcome(fixes)
	assert.Equal(t, models.VerificationStatusVerified, status)
	assert.Contains(t, message, "issues: price differs")
}

func TestVerificationOutcomeMessages(t *testing.T) {
	status, message := verificationOutcome(&FixSet{Supplier: SupplierFix{Action: SupplierNone}})
	assert.Equal(t, models.VerificationStatusVerified, status)
	assert.Equal(t, "verified clean", message)

	status, message = verificationOutcome(&FixSet{
		Applied: []string{"price restored", "sku synced"},
		Issues:  []string{"name differs"},
	})
	assert.Equal(t, models.VerificationStatusVerified, status)
	assert.Equal(t, "fixed: price restored, sku synced | issues: name differs", message)
}

func TestDiffVariant(t *testing.T) {
	src := &models.SourceVariation{
		ID:            20,
		SKU:           "SOAP-LAV-L",
		Price:         "14.00",
		Weight:        "200",
		ManageStock:   true,
		StockQuantity: sql.NullInt64{Int64: 8, Valid: true},
	}
	remote := map[string]interface{}{
		"price":           0.0,
		"sku":             "WRONG-SKU",
		"weight":          7.05,
		"inventory_level": 8.0,
	}

	fixes := DiffVariant(src, remote)
	assert.Equal(t, 14.0, fixes.Updates["price"])
	assert.Equal(t, "SOAP-LAV-L", fixes.Updates["sku"])
	_, hasWeight := fixes.Updates["weight"]
	assert.False(t, hasWeight)
	_, hasStock := fixes.Updates["inventory_level"]
	assert.False(t, hasStock)
	assert.Empty(t, fixes.Issues)
}
