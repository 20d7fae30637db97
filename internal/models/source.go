package models

import (
	"database/sql"
	"time"
)

// Source product types
const (
	ProductTypeSimple   = "simple"
	ProductTypeVariable = "variable"
)

// SourceProduct is a product row from the source catalog (read-only).
type SourceProduct struct {
	ID            int64          `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	SKU           string         `db:"sku" json:"sku"`
	Description   string         `db:"description" json:"description"`
	Price         string         `db:"price" json:"price"`
	RegularPrice  string         `db:"regular_price" json:"regular_price"`
	ProductType   string         `db:"product_type" json:"product_type"`
	Status        string         `db:"status" json:"status"`
	Weight        string         `db:"weight" json:"weight"`
	StockQuantity sql.NullInt64  `db:"stock_quantity" json:"stock_quantity"`
	ManageStock   bool           `db:"manage_stock" json:"manage_stock"`
	BrandID       sql.NullInt64  `db:"brand_id" json:"brand_id"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// IsVariable reports whether the product owns variation rows.
func (p *SourceProduct) IsVariable() bool {
	return p.ProductType == ProductTypeVariable
}

// SourceVariation is one purchasable variation of a variable product.
type SourceVariation struct {
	ID            int64         `db:"id" json:"id"`
	ParentID      int64         `db:"parent_id" json:"parent_id"`
	SKU           string        `db:"sku" json:"sku"`
	Price         string        `db:"price" json:"price"`
	Weight        string        `db:"weight" json:"weight"`
	StockQuantity sql.NullInt64 `db:"stock_quantity" json:"stock_quantity"`
	ManageStock   bool          `db:"manage_stock" json:"manage_stock"`

	// Attributes maps attribute slug -> term name, loaded separately.
	Attributes map[string]string `db:"-" json:"attributes"`
}

// VariationAttribute is one attribute/value pair on a variation.
type VariationAttribute struct {
	VariationID   int64  `db:"variation_id"`
	AttributeSlug string `db:"attribute_slug"`
	TermName      string `db:"term_name"`
}

// ProductAttributeValue is a product-level (non-variation) attribute value,
// e.g. material or country of origin.
type ProductAttributeValue struct {
	ProductID     int64  `db:"product_id" json:"product_id"`
	AttributeSlug string `db:"attribute_slug" json:"attribute_slug"`
	Value         string `db:"value" json:"value"`
}

// SourceCategory is a node in the flat source category collection.
type SourceCategory struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	ParentID    int64  `db:"parent_id" json:"parent_id"`
	Description string `db:"description" json:"description"`
}

// SourceAttribute is an attribute taxonomy (e.g. pa_color, pa_size).
type SourceAttribute struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// SourceAttributeTerm is a value of an attribute taxonomy.
type SourceAttributeTerm struct {
	ID          int64  `db:"id" json:"id"`
	AttributeID int64  `db:"attribute_id" json:"attribute_id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	ColorHex    string `db:"color_hex" json:"color_hex"`
}

// SourceBrand is a brand taxonomy term.
type SourceBrand struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// SourceCustomer is a customer account from the source store.
type SourceCustomer struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	CustomerType string `db:"customer_type" json:"customer_type"`
	Company      string `db:"company" json:"company"`
	Phone        string `db:"phone" json:"phone"`
	Address1     string `db:"address1" json:"address1"`
	Address2     string `db:"address2" json:"address2"`
	City         string `db:"city" json:"city"`
	State        string `db:"state" json:"state"`
	PostalCode   string `db:"postal_code" json:"postal_code"`
	CountryCode  string `db:"country_code" json:"country_code"`
}

// SourceOrder is an order header from the source store.
type SourceOrder struct {
	ID                 int64         `db:"id" json:"id"`
	CustomerID         sql.NullInt64 `db:"customer_id" json:"customer_id"`
	Status             string        `db:"status" json:"status"`
	Total              string        `db:"total" json:"total"`
	Currency           string        `db:"currency" json:"currency"`
	OrderDate          time.Time     `db:"order_date" json:"order_date"`
	PaymentMethod      string        `db:"payment_method" json:"payment_method"`
	PaymentMethodTitle string        `db:"payment_method_title" json:"payment_method_title"`

	BillingFirstName string `db:"billing_first_name" json:"billing_first_name"`
	BillingLastName  string `db:"billing_last_name" json:"billing_last_name"`
	BillingEmail     string `db:"billing_email" json:"billing_email"`
	BillingPhone     string `db:"billing_phone" json:"billing_phone"`
	BillingAddress1  string `db:"billing_address1" json:"billing_address1"`
	BillingAddress2  string `db:"billing_address2" json:"billing_address2"`
	BillingCity      string `db:"billing_city" json:"billing_city"`
	BillingState     string `db:"billing_state" json:"billing_state"`
	BillingPostcode  string `db:"billing_postcode" json:"billing_postcode"`
	BillingCountry   string `db:"billing_country" json:"billing_country"`

	ShippingFirstName string `db:"shipping_first_name" json:"shipping_first_name"`
	ShippingLastName  string `db:"shipping_last_name" json:"shipping_last_name"`
	ShippingAddress1  string `db:"shipping_address1" json:"shipping_address1"`
	ShippingAddress2  string `db:"shipping_address2" json:"shipping_address2"`
	ShippingCity      string `db:"shipping_city" json:"shipping_city"`
	ShippingState     string `db:"shipping_state" json:"shipping_state"`
	ShippingPostcode  string `db:"shipping_postcode" json:"shipping_postcode"`
	ShippingCountry   string `db:"shipping_country" json:"shipping_country"`
}

// SourceOrderItem is one line item on a source order.
type SourceOrderItem struct {
	ID          int64         `db:"id" json:"id"`
	OrderID     int64         `db:"order_id" json:"order_id"`
	ProductID   sql.NullInt64 `db:"product_id" json:"product_id"`
	VariationID sql.NullInt64 `db:"variation_id" json:"variation_id"`
	Name        string        `db:"name" json:"name"`
	Quantity    int           `db:"quantity" json:"quantity"`
	Price       string        `db:"price" json:"price"`
	Total       string        `db:"total" json:"total"`
}
