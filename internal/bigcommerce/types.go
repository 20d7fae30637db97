package bigcommerce

// Destination-shaped payloads for the v3 catalog / v2 orders APIs. Only the
// fields the migrator writes are modeled; success responses stay untyped maps.

type ProductPayload struct {
	Name              string               `json:"name"`
	Type              string               `json:"type"`
	SKU               string               `json:"sku,omitempty"`
	Description       string               `json:"description,omitempty"`
	Price             float64              `json:"price"`
	Weight            float64              `json:"weight"`
	Categories        []int64              `json:"categories,omitempty"`
	BrandID           int64                `json:"brand_id,omitempty"`
	InventoryLevel    int64                `json:"inventory_level,omitempty"`
	InventoryTracking string               `json:"inventory_tracking,omitempty"`
	IsVisible         bool                 `json:"is_visible"`
	CustomFields      []CustomFieldPayload `json:"custom_fields,omitempty"`
}

type CustomFieldPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type OptionPayload struct {
	DisplayName  string               `json:"display_name"`
	Type         string               `json:"type"`
	OptionValues []OptionValuePayload `json:"option_values"`
}

type OptionValuePayload struct {
	Label     string                 `json:"label"`
	SortOrder int                    `json:"sort_order"`
	ValueData map[string]interface{} `json:"value_data,omitempty"`
}

type VariantPayload struct {
	SKU            string               `json:"sku,omitempty"`
	Price          float64              `json:"price,omitempty"`
	Weight         float64              `json:"weight,omitempty"`
	InventoryLevel int64                `json:"inventory_level,omitempty"`
	OptionValues   []VariantOptionValue `json:"option_values"`
}

type VariantOptionValue struct {
	OptionID int64 `json:"option_id"`
	ID       int64 `json:"id"`
}

type CategoryPayload struct {
	Name        string `json:"name"`
	ParentID    int64  `json:"parent_id"`
	Description string `json:"description,omitempty"`
	IsVisible   bool   `json:"is_visible"`
}

type BrandPayload struct {
	Name string `json:"name"`
}

type CustomerGroupPayload struct {
	Name string `json:"name"`
}

type PriceListPayload struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type CustomerPayload struct {
	Email           string                   `json:"email"`
	FirstName       string                   `json:"first_name"`
	LastName        string                   `json:"last_name"`
	Company         string                   `json:"company,omitempty"`
	Phone           string                   `json:"phone,omitempty"`
	CustomerGroupID int64                    `json:"customer_group_id"`
	Addresses       []CustomerAddressPayload `json:"addresses,omitempty"`
}

type CustomerAddressPayload struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Company         string `json:"company,omitempty"`
	Address1        string `json:"address1"`
	Address2        string `json:"address2,omitempty"`
	City            string `json:"city"`
	StateOrProvince string `json:"state_or_province"`
	PostalCode      string `json:"postal_code"`
	CountryCode     string `json:"country_code"`
	Phone           string `json:"phone,omitempty"`
}

type OrderPayload struct {
	StatusID        int                `json:"status_id"`
	CustomerID      int64              `json:"customer_id"`
	DateCreated     string             `json:"date_created,omitempty"`
	BillingAddress  OrderAddress       `json:"billing_address"`
	ShippingAddress []OrderAddress     `json:"shipping_addresses,omitempty"`
	Products        []OrderLineItem    `json:"products"`
	StaffNotes      string             `json:"staff_notes,omitempty"`
}

type OrderAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street1   string `json:"street_1"`
	Street2   string `json:"street_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// OrderLineItem is either a catalog reference (ProductID/VariantID set) or a
// synthetic custom item (Name/SKU/PriceIncTax set, ProductID zero).
type OrderLineItem struct {
	ProductID   int64   `json:"product_id,omitempty"`
	VariantID   int64   `json:"variant_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	SKU         string  `json:"sku,omitempty"`
	Quantity    int     `json:"quantity"`
	PriceIncTax float64 `json:"price_inc_tax,omitempty"`
	PriceExTax  float64 `json:"price_ex_tax,omitempty"`
}

// DataObject extracts the v3 "data" envelope as an object, if present.
func (r *Result) DataObject() map[string]interface{} {
	if r.Data == nil {
		return nil
	}
	if obj, ok := r.Data["data"].(map[string]interface{}); ok {
		return obj
	}
	return r.Data
}

// DataArray extracts the v3 "data" envelope as a list, if present.
func (r *Result) DataArray() []interface{} {
	if r.Data == nil {
		return nil
	}
	if arr, ok := r.Data["data"].([]interface{}); ok {
		return arr
	}
	return nil
}

// ObjInt64 reads a numeric field from a decoded JSON object.
func ObjInt64(obj map[string]interface{}, key string) int64 {
	if obj == nil {
		return 0
	}
	if f, ok := obj[key].(float64); ok {
		return int64(f)
	}
	return 0
}

// ObjFloat reads a float field from a decoded JSON object.
func ObjFloat(obj map[string]interface{}, key string) float64 {
	if obj == nil {
		return 0
	}
	if f, ok := obj[key].(float64); ok {
		return f
	}
	return 0
}

// ObjString reads a string field from a decoded JSON object.
func ObjString(obj map[string]interface{}, key string) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
