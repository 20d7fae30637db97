package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
)

// Read-only queries against the imported source-store tables. Nothing in the
// migrator ever writes to these.

// GetSourceProducts retrieves all source products, id ascending.
func (s *Store) GetSourceProducts(ctx context.Context) ([]models.SourceProduct, error) {
	var products []models.SourceProduct
	err := s.db.SelectContext(ctx, &products, `SELECT * FROM source_products ORDER BY id`)
	return products, err
}

// GetSourceProduct retrieves one source product by id.
func (s *Store) GetSourceProduct(ctx context.Context, id int64) (*models.SourceProduct, error) {
	var product models.SourceProduct
	err := s.db.GetContext(ctx, &product, `SELECT * FROM source_products WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetSourceVariations retrieves all variations of a product with their
// attribute/value pairs attached.
func (s *Store) GetSourceVariations(ctx context.Context, parentID int64) ([]models.SourceVariation, error) {
	var variations []models.SourceVariation
	err := s.db.SelectContext(ctx, &variations,
		`SELECT * FROM source_variations WHERE parent_id = $1 ORDER BY id`, parentID)
	if err != nil {
		return nil, err
	}

	for i := range variations {
		var attrs []models.VariationAttribute
		err := s.db.SelectContext(ctx, &attrs,
			`SELECT * FROM source_variation_attributes WHERE variation_id = $1`,
			variations[i].ID)
		if err != nil {
			return nil, err
		}
		variations[i].Attributes = make(map[string]string, len(attrs))
		for _, a := range attrs {
			variations[i].Attributes[a.AttributeSlug] = a.TermName
		}
	}

	return variations, nil
}

// GetSourceVariation retrieves one variation by id, with attributes.
func (s *Store) GetSourceVariation(ctx context.Context, id int64) (*models.SourceVariation, error) {
	var variation models.SourceVariation
	err := s.db.GetContext(ctx, &variation, `SELECT * FROM source_variations WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source variation not found: %d", id)
	}
	if err != nil {
		return nil, err
	}

	var attrs []models.VariationAttribute
	if err := s.db.SelectContext(ctx, &attrs,
		`SELECT * FROM source_variation_attributes WHERE variation_id = $1`, id); err != nil {
		return nil, err
	}
	variation.Attributes = make(map[string]string, len(attrs))
	for _, a := range attrs {
		variation.Attributes[a.AttributeSlug] = a.TermName
	}
	return &variation, nil
}

// GetProductCategoryIDs returns the source category ids assigned to a product.
func (s *Store) GetProductCategoryIDs(ctx context.Context, productID int64) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		`SELECT category_id FROM source_product_categories WHERE product_id = $1`, productID)
	return ids, err
}

// GetProductAttributes returns product-level attribute values (the ones that
// describe the product itself rather than distinguish variations).
func (s *Store) GetProductAttributes(ctx context.Context, productID int64) ([]models.ProductAttributeValue, error) {
	var attrs []models.ProductAttributeValue
	err := s.db.SelectContext(ctx, &attrs,
		`SELECT * FROM source_product_attributes WHERE product_id = $1`, productID)
	return attrs, err
}

// GetSourceCategories retrieves the flat source category collection.
func (s *Store) GetSourceCategories(ctx context.Context) ([]models.SourceCategory, error) {
	var categories []models.SourceCategory
	err := s.db.SelectContext(ctx, &categories, `SELECT * FROM source_categories ORDER BY id`)
	return categories, err
}

// GetSourceAttributes retrieves all attribute taxonomies.
func (s *Store) GetSourceAttributes(ctx context.Context) ([]models.SourceAttribute, error) {
	var attributes []models.SourceAttribute
	err := s.db.SelectContext(ctx, &attributes, `SELECT * FROM source_attributes ORDER BY id`)
	return attributes, err
}

// GetAttributeTerms retrieves the values of one attribute taxonomy.
func (s *Store) GetAttributeTerms(ctx context.Context, attributeID int64) ([]models.SourceAttributeTerm, error) {
	var terms []models.SourceAttributeTerm
	err := s.db.SelectContext(ctx, &terms,
		`SELECT * FROM source_attribute_terms WHERE attribute_id = $1 ORDER BY id`, attributeID)
	return terms, err
}

// GetSourceBrands retrieves all brand terms.
func (s *Store) GetSourceBrands(ctx context.Context) ([]models.SourceBrand, error) {
	var brands []models.SourceBrand
	err := s.db.SelectContext(ctx, &brands, `SELECT * FROM source_brands ORDER BY id`)
	return brands, err
}

// GetSourceCustomers retrieves all source customers.
func (s *Store) GetSourceCustomers(ctx context.Context) ([]models.SourceCustomer, error) {
	var customers []models.SourceCustomer
	err := s.db.SelectContext(ctx, &customers, `SELECT * FROM source_customers ORDER BY id`)
	return customers, err
}

// GetSourceCustomer retrieves one source customer by id.
func (s *Store) GetSourceCustomer(ctx context.Context, id int64) (*models.SourceCustomer, error) {
	var customer models.SourceCustomer
	err := s.db.GetContext(ctx, &customer, `SELECT * FROM source_customers WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source customer not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetSourceOrders retrieves all source orders, oldest first.
func (s *Store) GetSourceOrders(ctx context.Context) ([]models.SourceOrder, error) {
	var orders []models.SourceOrder
	err := s.db.SelectContext(ctx, &orders, `SELECT * FROM source_orders ORDER BY order_date ASC`)
	return orders, err
}

// GetSourceOrder retrieves one source order by id.
func (s *Store) GetSourceOrder(ctx context.Context, id int64) (*models.SourceOrder, error) {
	var order models.SourceOrder
	err := s.db.GetContext(ctx, &order, `SELECT * FROM source_orders WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source order not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetSourceOrderItems retrieves the line items of one source order.
func (s *Store) GetSourceOrderItems(ctx context.Context, orderID int64) ([]models.SourceOrderItem, error) {
	var items []models.SourceOrderItem
	err := s.db.SelectContext(ctx, &items,
		`SELECT * FROM source_order_items WHERE order_id = $1 ORDER BY id`, orderID)
	return items, err
}

// GetProductSupplier looks up the supplier attribution for a product.
// ok is false when no attribution exists.
func (s *Store) GetProductSupplier(ctx context.Context, productID int64) (string, bool, error) {
	var supplier string
	err := s.db.GetContext(ctx, &supplier,
		`SELECT supplier_name FROM source_product_suppliers WHERE product_id = $1`, productID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return supplier, true, nil
}

// CountSourceOrders counts importable source orders.
func (s *Store) CountSourceOrders(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM source_orders`)
	return n, err
}
