package verify

import (
	"fmt"
	"strings"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/migrate"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"

	"github.com/shopspring/decimal"
)

// Supplier fix actions
const (
	SupplierNone   = "none"
	SupplierCreate = "create"
	SupplierUpdate = "update"
)

// SupplierFix describes what the supplier custom field needs: nothing, a new
// field, or an update to an existing one.
type SupplierFix struct {
	Action  string
	FieldID int64
	Value   string
}

// FixSet is the outcome of diffing one destination product against its source.
// Updates go into a single product PUT; Issues are discrepancies the engine
// refuses to fix automatically and reports instead.
type FixSet struct {
	Updates  map[string]interface{}
	Applied  []string
	Issues   []string
	Supplier SupplierFix
}

// Clean reports whether nothing needs fixing and nothing is suspicious.
func (f *FixSet) Clean() bool {
	return len(f.Updates) == 0 && len(f.Issues) == 0 && f.Supplier.Action == SupplierNone
}

// DiffProduct compares a destination product (as returned with
// include=custom_fields) against its source and decides what to heal.
//
// A zero destination price with a non-zero source price is a migration defect
// and gets fixed; two non-zero prices that disagree might be a deliberate
// repricing on either side, so that is reported, not overwritten.
func DiffProduct(src *models.SourceProduct, variationCount int, remote map[string]interface{}, supplier string) *FixSet {
	fixes := &FixSet{
		Updates:  make(map[string]interface{}),
		Supplier: SupplierFix{Action: SupplierNone},
	}

	srcPrice := decimal.NewFromFloat(parsePrice(src.Price))
	remotePrice := decimal.NewFromFloat(bigcommerce.ObjFloat(remote, "price"))
	switch {
	case remotePrice.IsZero() && srcPrice.IsPositive():
		fixes.Updates["price"], _ = srcPrice.Round(2).Float64()
		fixes.Applied = append(fixes.Applied, "price restored")
	case !remotePrice.IsZero() && !srcPrice.Round(2).Equal(remotePrice.Round(2)):
		fixes.Issues = append(fixes.Issues,
			fmt.Sprintf("price differs: source %s, destination %s", srcPrice, remotePrice))
	}

	tracking := expectedTracking(src, variationCount)
	if bigcommerce.ObjString(remote, "inventory_tracking") != tracking {
		fixes.Updates["inventory_tracking"] = tracking
		fixes.Applied = append(fixes.Applied, "inventory tracking corrected")
	}

	if tracking == "product" && src.StockQuantity.Valid {
		remoteLevel := int64(bigcommerce.ObjFloat(remote, "inventory_level"))
		if remoteLevel != src.StockQuantity.Int64 {
			fixes.Updates["inventory_level"] = src.StockQuantity.Int64
			fixes.Applied = append(fixes.Applied, "stock level synced")
		}
	}

	if src.SKU != "" && bigcommerce.ObjString(remote, "sku") != src.SKU {
		fixes.Updates["sku"] = src.SKU
		fixes.Applied = append(fixes.Applied, "sku synced")
	}

	if src.Name != "" && bigcommerce.ObjString(remote, "name") != src.Name {
		fixes.Updates["name"] = src.Name
		fixes.Applied = append(fixes.Applied, "name synced")
	}

	if bigcommerce.ObjFloat(remote, "weight") == 0 {
		if w, ok := migrate.NormalizeWeight(src.Weight); ok && w.Ounces > 0 {
			fixes.Updates["weight"] = w.Ounces
			fixes.Applied = append(fixes.Applied, "weight restored")
		}
	}

	fixes.Supplier = diffSupplier(remote, supplier)
	if fixes.Supplier.Action != SupplierNone {
		fixes.Applied = append(fixes.Applied, "supplier field "+fixes.Supplier.Action+"d")
	}

	return fixes
}

// DiffVariant compares one destination variant against its source variation.
// Same philosophy as DiffProduct, minus fields variants do not own.
func DiffVariant(src *models.SourceVariation, remote map[string]interface{}) *FixSet {
	fixes := &FixSet{
		Updates:  make(map[string]interface{}),
		Supplier: SupplierFix{Action: SupplierNone},
	}

	srcPrice := decimal.NewFromFloat(parsePrice(src.Price))
	remotePrice := decimal.NewFromFloat(bigcommerce.ObjFloat(remote, "price"))
	switch {
	case remotePrice.IsZero() && srcPrice.IsPositive():
		fixes.Updates["price"], _ = srcPrice.Round(2).Float64()
		fixes.Applied = append(fixes.Applied, "price restored")
	case !remotePrice.IsZero() && !srcPrice.Round(2).Equal(remotePrice.Round(2)):
		fixes.Issues = append(fixes.Issues,
			fmt.Sprintf("price differs: source %s, destination %s", srcPrice, remotePrice))
	}

	if src.SKU != "" && bigcommerce.ObjString(remote, "sku") != src.SKU {
		fixes.Updates["sku"] = src.SKU
		fixes.Applied = append(fixes.Applied, "sku synced")
	}

	if src.ManageStock && src.StockQuantity.Valid {
		remoteLevel := int64(bigcommerce.ObjFloat(remote, "inventory_level"))
		if remoteLevel != src.StockQuantity.Int64 {
			fixes.Updates["inventory_level"] = src.StockQuantity.Int64
			fixes.Applied = append(fixes.Applied, "stock level synced")
		}
	}

	if bigcommerce.ObjFloat(remote, "weight") == 0 {
		if w, ok := migrate.NormalizeWeight(src.Weight); ok && w.Ounces > 0 {
			fixes.Updates["weight"] = w.Ounces
			fixes.Applied = append(fixes.Applied, "weight restored")
		}
	}

	return fixes
}

func expectedTracking(src *models.SourceProduct, variationCount int) string {
	switch {
	case variationCount > 0:
		return "variant"
	case src.ManageStock:
		return "product"
	default:
		return "none"
	}
}

// diffSupplier inspects the remote custom_fields list for the supplier field.
// An attributed product missing the field gets one; a wrong value gets
// updated; a missing attribution on the source side is left alone.
func diffSupplier(remote map[string]interface{}, supplier string) SupplierFix {
	if supplier == "" {
		return SupplierFix{Action: SupplierNone}
	}

	fields, _ := remote["custom_fields"].([]interface{})
	for _, f := range fields {
		field, ok := f.(map[string]interface{})
		if !ok {
			continue
		}
		if bigcommerce.ObjString(field, "name") != "Supplier" {
			continue
		}
		if bigcommerce.ObjString(field, "value") == supplier {
			return SupplierFix{Action: SupplierNone}
		}
		return SupplierFix{
			Action:  SupplierUpdate,
			FieldID: bigcommerce.ObjInt64(field, "id"),
			Value:   supplier,
		}
	}

	return SupplierFix{Action: SupplierCreate, Value: supplier}
}

// verificationOutcome decides the terminal ledger state for one diff. Drift
// issues are non-fatal: they land in the message, never in the status, so a
// human can review them without the record churning through bulk retries.
func verificationOutcome(fixes *FixSet) (status, message string) {
	var parts []string
	if len(fixes.Applied) > 0 {
		parts = append(parts, "fixed: "+strings.Join(fixes.Applied, ", "))
	}
	if len(fixes.Issues) > 0 {
		parts = append(parts, "issues: "+strings.Join(fixes.Issues, "; "))
	}
	message = strings.Join(parts, " | ")
	if message == "" {
		message = "verified clean"
	}
	return models.VerificationStatusVerified, message
}

func parsePrice(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
