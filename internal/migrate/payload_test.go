package migrate

import (
	"database/sql"
	"testing"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareProductSimple(t *testing.T) {
	payload, perr := PrepareProduct(&ProductInput{
		Product: &models.SourceProduct{
			ID:            1,
			Name:          "Lavender Soap",
			SKU:           "SOAP-LAV",
			Price:         "12.50",
			Weight:        "120",
			Status:        "publish",
			ProductType:   models.ProductTypeSimple,
			ManageStock:   true,
			StockQuantity: sql.NullInt64{Int64: 40, Valid: true},
		},
		CategoryIDs: []int64{7, 9},
		BrandID:     3,
	})
	require.Nil(t, perr)

	assert.Equal(t, "Lavender Soap", payload.Name)
	assert.Equal(t, "physical", payload.Type)
	assert.Equal(t, 12.5, payload.Price)
	assert.Equal(t, []int64{7, 9}, payload.Categories)
	assert.Equal(t, int64(3), payload.BrandID)
	assert.Equal(t, "product", payload.InventoryTracking)
	assert.Equal(t, int64(40), payload.InventoryLevel)
	assert.True(t, payload.IsVisible)
	assert.Equal(t, 4.23, payload.Weight)
}

func TestPrepareProductVariableTracksByVariant(t *testing.T) {
	payload, perr := PrepareProduct(&ProductInput{
		Product: &models.SourceProduct{
			ID:          2,
			Name:        "Tea Sampler",
			ProductType: models.ProductTypeVariable,
		},
	})
	require.Nil(t, perr)
	assert.Equal(t, "variant", payload.InventoryTracking)
	assert.Zero(t, payload.InventoryLevel)
}

func TestPrepareProductWeightRangeCustomField(t *testing.T) {
	payload, perr := PrepareProduct(&ProductInput{
		Product: &models.SourceProduct{
			ID:          3,
			Name:        "Candle",
			Weight:      "29-3.5",
			ProductType: models.ProductTypeSimple,
		},
	})
	require.Nil(t, perr)

	assert.Equal(t, 0.12, payload.Weight)
	require.Len(t, payload.CustomFields, 1)
	assert.Equal(t, "Weight Range (g)", payload.CustomFields[0].Name)
	assert.Equal(t, "2.9-3.5", payload.CustomFields[0].Value)
}

func TestPrepareProductSupplierAndPropertyFields(t *testing.T) {
	payload, perr := PrepareProduct(&ProductInput{
		Product: &models.SourceProduct{
			ID:          4,
			Name:        "Mug",
			ProductType: models.ProductTypeSimple,
		},
		Supplier: "Acme Imports",
		PropertyAttributes: []models.ProductAttributeValue{
			{AttributeSlug: "pa_material", Value: "Ceramic"},
			{AttributeSlug: "pa_country-of-origin", Value: ""},
		},
	})
	require.Nil(t, perr)

	require.Len(t, payload.CustomFields, 2)
	assert.Equal(t, "Supplier", payload.CustomFields[0].Name)
	assert.Equal(t, "Acme Imports", payload.CustomFields[0].Value)
	assert.Equal(t, "Material", payload.CustomFields[1].Name)
	assert.Equal(t, "Ceramic", payload.CustomFields[1].Value)
}

func TestPrepareProductRequiresName(t *testing.T) {
	_, perr := PrepareProduct(&ProductInput{
		Product: &models.SourceProduct{ID: 5},
	})
	require.NotNil(t, perr)
	assert.Equal(t, "name", perr.Field)
}

func TestPrepareVariant(t *testing.T) {
	optionValues := map[string]bigcommerce.VariantOptionValue{
		"pa_size=M":    {OptionID: 10, ID: 100},
		"pa_color=Red": {OptionID: 11, ID: 111},
	}

	payload, perr := PrepareVariant(&models.SourceVariation{
		ID:            20,
		SKU:           "MUG-M-RED",
		Price:         "9.99",
		Weight:        "300",
		ManageStock:   true,
		StockQuantity: sql.NullInt64{Int64: 5, Valid: true},
		Attributes:    map[string]string{"pa_size": "M", "pa_color": "Red"},
	}, optionValues)
	require.Nil(t, perr)

	assert.Equal(t, "MUG-M-RED", payload.SKU)
	assert.Equal(t, 9.99, payload.Price)
	assert.Equal(t, int64(5), payload.InventoryLevel)
	// Sorted by slug: pa_color first.
	require.Len(t, payload.OptionValues, 2)
	assert.Equal(t, int64(111), payload.OptionValues[0].ID)
	assert.Equal(t, int64(100), payload.OptionValues[1].ID)
}

func TestPrepareVariantUnresolvedAttributeFails(t *testing.T) {
	_, perr := PrepareVariant(&models.SourceVariation{
		ID:         21,
		Attributes: map[string]string{"pa_size": "XXL"},
	}, map[string]bigcommerce.VariantOptionValue{"pa_size=M": {OptionID: 10, ID: 100}})

	require.NotNil(t, perr)
	assert.Equal(t, "option_values", perr.Field)
	assert.Contains(t, perr.Error(), "pa_size=XXL")
}

func TestPrepareVariantNoAttributesFails(t *testing.T) {
	_, perr := PrepareVariant(&models.SourceVariation{ID: 22}, nil)
	require.NotNil(t, perr)
	assert.Equal(t, "attributes", perr.Field)
}
