package migrate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/mapping"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// Best-effort color names for swatch values whose terms carry no hex metadata.
var colorNameHex = map[string]string{
	"black":  "#000000",
	"white":  "#FFFFFF",
	"red":    "#FF0000",
	"green":  "#008000",
	"blue":   "#0000FF",
	"yellow": "#FFFF00",
	"orange": "#FFA500",
	"purple": "#800080",
	"pink":   "#FFC0CB",
	"brown":  "#A52A2A",
	"grey":   "#808080",
	"gray":   "#808080",
	"beige":  "#F5F5DC",
	"navy":   "#000080",
	"gold":   "#FFD700",
	"silver": "#C0C0C0",
}

// AttributeMigrator creates one destination option per source attribute
// taxonomy, plus its values, and rebuilds the option mapping table.
// Attributes on the exclusion list describe product properties rather than
// purchasable variants; they are left to the product migrator, which routes
// them into custom fields.
type AttributeMigrator struct {
	store    *store.Store
	client   Requester
	mappings *mapping.Repo
	excluded map[string]bool
	logger   *zap.Logger
}

// NewAttributeMigrator creates an attribute migrator.
func NewAttributeMigrator(st *store.Store, client Requester, mappings *mapping.Repo, excludedSlugs []string) *AttributeMigrator {
	excluded := make(map[string]bool, len(excludedSlugs))
	for _, slug := range excludedSlugs {
		excluded[slug] = true
	}
	return &AttributeMigrator{
		store:    st,
		client:   client,
		mappings: mappings,
		excluded: excluded,
		logger:   util.GetLogger(),
	}
}

// Migrate creates destination options for every non-excluded attribute
// taxonomy and replaces the option mapping table.
func (m *AttributeMigrator) Migrate(ctx context.Context) (*OneShotResult, error) {
	ctx, span := util.StartSpan(ctx, "AttributeMigrator.Migrate")
	defer span.End()

	attributes, err := m.store.GetSourceAttributes(ctx)
	if err != nil {
		return nil, err
	}

	result := &OneShotResult{}
	destIDs := make(map[string]int64)

	for _, attr := range attributes {
		if m.excluded[attr.Slug] {
			result.Skipped++
			continue
		}

		terms, err := m.store.GetAttributeTerms(ctx, attr.ID)
		if err != nil {
			return nil, err
		}

		payload := BuildOptionPayload(attr, terms)
		res, err := m.client.Request(ctx, http.MethodPost, "v2/options", payload)
		if err != nil {
			return nil, err
		}
		if res.Failed() {
			m.logger.Warn("Attribute migration failed",
				zap.String("attribute", attr.Slug),
				zap.String("error", res.Error))
			result.Failed++
			continue
		}

		destIDs[attr.Slug] = bigcommerce.ObjInt64(res.DataObject(), "id")
		result.Migrated++
	}

	if err := m.mappings.ReplaceAll(ctx, models.MappingOption, destIDs); err != nil {
		return nil, err
	}

	m.logger.Info("Attribute migration finished",
		zap.Int("migrated", result.Migrated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

// BuildOptionPayload shapes one attribute taxonomy into a destination option.
// Color attributes become swatches with a best-effort hex value: term
// metadata first, then the static name table, else a plain label.
func BuildOptionPayload(attr models.SourceAttribute, terms []models.SourceAttributeTerm) bigcommerce.OptionPayload {
	optionType := "dropdown"
	if isColorAttribute(attr.Slug) {
		optionType = "swatch"
	}

	values := make([]bigcommerce.OptionValuePayload, 0, len(terms))
	for i, term := range terms {
		value := bigcommerce.OptionValuePayload{
			Label:     term.Name,
			SortOrder: i,
		}
		if optionType == "swatch" {
			if hex := colorHexFor(term); hex != "" {
				value.ValueData = map[string]interface{}{"colors": []string{hex}}
			}
		}
		values = append(values, value)
	}

	return bigcommerce.OptionPayload{
		DisplayName:  attributeDisplayName(attr),
		Type:         optionType,
		OptionValues: values,
	}
}

func colorHexFor(term models.SourceAttributeTerm) string {
	if term.ColorHex != "" {
		return term.ColorHex
	}
	return colorNameHex[strings.ToLower(term.Name)]
}

func isColorAttribute(slug string) bool {
	return strings.Contains(slug, "color") || strings.Contains(slug, "colour")
}

func attributeDisplayName(attr models.SourceAttribute) string {
	if attr.Name != "" {
		return attr.Name
	}
	name := strings.TrimPrefix(attr.Slug, "pa_")
	name = strings.ReplaceAll(name, "-", " ")
	if name == "" {
		return fmt.Sprintf("attribute-%d", attr.ID)
	}
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
