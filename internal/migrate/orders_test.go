package migrate

import (
	"testing"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderPayload(t *testing.T) {
	order := &models.SourceOrder{
		ID:                 501,
		Status:             "completed",
		OrderDate:          time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC),
		PaymentMethodTitle: "Credit Card",
		BillingFirstName:   "Jane",
		BillingLastName:    "Doe",
		BillingAddress1:    "1 Main St",
		BillingCity:        "Springfield",
		BillingState:       "IL",
		BillingPostcode:    "62704",
		BillingCountry:     "United States",
		BillingEmail:       "jane@example.com",
		ShippingFirstName:  "Jane",
		ShippingLastName:   "Doe",
		ShippingAddress1:   "2 Oak Ave",
		ShippingCity:       "Springfield",
		ShippingCountry:    "United States",
	}

	lineItems := []bigcommerce.OrderLineItem{{ProductID: 9, Quantity: 2}}
	payload := buildOrderPayload(order, 77, lineItems)

	assert.Equal(t, 10, payload.StatusID)
	assert.Equal(t, int64(77), payload.CustomerID)
	assert.Equal(t, "Jane", payload.BillingAddress.FirstName)
	assert.Equal(t, "jane@example.com", payload.BillingAddress.Email)
	require.Len(t, payload.ShippingAddress, 1)
	assert.Equal(t, "2 Oak Ave", payload.ShippingAddress[0].Street1)
	assert.Equal(t, lineItems, payload.Products)
	assert.Contains(t, payload.StaffNotes, "source order 501")
	assert.Contains(t, payload.StaffNotes, "Credit Card")
}

func TestBuildOrderPayloadNoShippingAddress(t *testing.T) {
	payload := buildOrderPayload(&models.SourceOrder{
		ID:     502,
		Status: "pending",
	}, 0, nil)

	assert.Equal(t, 7, payload.StatusID)
	assert.Zero(t, payload.CustomerID)
	assert.Empty(t, payload.ShippingAddress)
}
