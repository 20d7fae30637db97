package migrate

import (
	"testing"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptionPayloadDropdown(t *testing.T) {
	payload := BuildOptionPayload(
		models.SourceAttribute{ID: 1, Name: "Size", Slug: "pa_size"},
		[]models.SourceAttributeTerm{
			{Name: "S"}, {Name: "M"}, {Name: "L"},
		})

	assert.Equal(t, "Size", payload.DisplayName)
	assert.Equal(t, "dropdown", payload.Type)
	require.Len(t, payload.OptionValues, 3)
	assert.Equal(t, "M", payload.OptionValues[1].Label)
	assert.Equal(t, 1, payload.OptionValues[1].SortOrder)
	assert.Nil(t, payload.OptionValues[1].ValueData)
}

func TestBuildOptionPayloadSwatch(t *testing.T) {
	payload := BuildOptionPayload(
		models.SourceAttribute{ID: 2, Slug: "pa_color"},
		[]models.SourceAttributeTerm{
			{Name: "Crimson", ColorHex: "#DC143C"},
			{Name: "Red"},
			{Name: "Mystery"},
		})

	assert.Equal(t, "swatch", payload.Type)
	require.Len(t, payload.OptionValues, 3)

	// Term metadata wins, then the static name table, else no swatch data.
	assert.Equal(t, map[string]interface{}{"colors": []string{"#DC143C"}}, payload.OptionValues[0].ValueData)
	assert.Equal(t, map[string]interface{}{"colors": []string{"#FF0000"}}, payload.OptionValues[1].ValueData)
	assert.Nil(t, payload.OptionValues[2].ValueData)
}

func TestAttributeDisplayNameFromSlug(t *testing.T) {
	assert.Equal(t, "Country Of Origin",
		attributeDisplayName(models.SourceAttribute{Slug: "pa_country-of-origin"}))
	assert.Equal(t, "Size",
		attributeDisplayName(models.SourceAttribute{Slug: "pa_size"}))
	assert.Equal(t, "Named",
		attributeDisplayName(models.SourceAttribute{Name: "Named", Slug: "pa_other"}))
}

func TestDisplayNameToSlugRoundTrip(t *testing.T) {
	for _, slug := range []string{"pa_size", "pa_color", "pa_country-of-origin"} {
		name := attributeDisplayName(models.SourceAttribute{Slug: slug})
		assert.Equal(t, slug, displayNameToSlug(name))
	}
}
