package migrate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
)

// ProductInput bundles a source product with its already-resolved destination
// references, so payload shaping stays a pure function over it.
type ProductInput struct {
	Product            *models.SourceProduct
	CategoryIDs        []int64
	BrandID            int64
	Supplier           string
	PropertyAttributes []models.ProductAttributeValue
}

// PrepareProduct shapes a source product into a destination payload. Property
// attributes (the excluded, non-variant ones) and weight ranges land in custom
// fields. Weights are normalized to ounces.
func PrepareProduct(input *ProductInput) (*bigcommerce.ProductPayload, *PreparationError) {
	p := input.Product
	if p.Name == "" {
		return nil, prepErrorf("name", "product %d has no name", p.ID)
	}

	payload := &bigcommerce.ProductPayload{
		Name:        p.Name,
		Type:        "physical",
		SKU:         p.SKU,
		Description: p.Description,
		Price:       parsePrice(p.Price),
		Categories:  input.CategoryIDs,
		BrandID:     input.BrandID,
		IsVisible:   p.Status == "publish",
	}

	weight, _ := NormalizeWeight(p.Weight)
	payload.Weight = weight.Ounces
	if weight.HasRange {
		payload.CustomFields = append(payload.CustomFields, bigcommerce.CustomFieldPayload{
			Name:  "Weight Range (g)",
			Value: weight.RangeText,
		})
	}

	switch {
	case p.IsVariable():
		payload.InventoryTracking = "variant"
	case p.ManageStock:
		payload.InventoryTracking = "product"
		if p.StockQuantity.Valid {
			payload.InventoryLevel = p.StockQuantity.Int64
		}
	default:
		payload.InventoryTracking = "none"
	}

	if input.Supplier != "" {
		payload.CustomFields = append(payload.CustomFields, bigcommerce.CustomFieldPayload{
			Name:  "Supplier",
			Value: input.Supplier,
		})
	}
	for _, attr := range input.PropertyAttributes {
		if attr.Value == "" {
			continue
		}
		payload.CustomFields = append(payload.CustomFields, bigcommerce.CustomFieldPayload{
			Name:  attributeDisplayName(models.SourceAttribute{Slug: attr.AttributeSlug}),
			Value: attr.Value,
		})
	}

	return payload, nil
}

// PrepareVariant shapes a source variation into a destination variant payload.
// Every attribute on the variation must resolve through the option value map;
// one unresolved attribute fails the whole variant, since a variant created
// with partial options would be unpurchasable.
func PrepareVariant(v *models.SourceVariation, optionValues map[string]bigcommerce.VariantOptionValue) (*bigcommerce.VariantPayload, *PreparationError) {
	if len(v.Attributes) == 0 {
		return nil, prepErrorf("attributes", "variation %d has no attributes", v.ID)
	}

	slugs := make([]string, 0, len(v.Attributes))
	for slug := range v.Attributes {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	payload := &bigcommerce.VariantPayload{
		SKU:   v.SKU,
		Price: parsePrice(v.Price),
	}
	for _, slug := range slugs {
		term := v.Attributes[slug]
		ref, ok := optionValues[slug+"="+term]
		if !ok {
			return nil, prepErrorf("option_values",
				"variation %d: no destination option value for %s=%s", v.ID, slug, term)
		}
		payload.OptionValues = append(payload.OptionValues, ref)
	}

	if weight, ok := NormalizeWeight(v.Weight); ok {
		payload.Weight = weight.Ounces
	}
	if v.ManageStock && v.StockQuantity.Valid {
		payload.InventoryLevel = v.StockQuantity.Int64
	}

	return payload, nil
}

// displayNameToSlug reverses attributeDisplayName well enough to rebuild the
// slug-keyed option map from a destination product's existing options.
func displayNameToSlug(displayName string) string {
	slug := strings.ToLower(strings.TrimSpace(displayName))
	slug = strings.ReplaceAll(slug, " ", "-")
	return fmt.Sprintf("pa_%s", slug)
}
