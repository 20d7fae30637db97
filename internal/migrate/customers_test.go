package migrate

import (
	"testing"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomerMigratorKeepsDelay(t *testing.T) {
	m := NewCustomerMigrator(nil, nil, nil, nil, 200*time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, m.delay)
}

func TestPrepareCustomer(t *testing.T) {
	payload, perr := PrepareCustomer(&models.SourceCustomer{
		ID:          1,
		Email:       "jane@example.com",
		FirstName:   "Jane",
		LastName:    "Doe",
		Company:     "Doe Trading",
		Address1:    "1 Main St",
		City:        "Springfield",
		State:       "IL",
		PostalCode:  "62704",
		CountryCode: "us",
	}, 42)
	require.Nil(t, perr)

	assert.Equal(t, "jane@example.com", payload.Email)
	assert.Equal(t, int64(42), payload.CustomerGroupID)
	require.Len(t, payload.Addresses, 1)
	assert.Equal(t, "US", payload.Addresses[0].CountryCode)
	assert.Equal(t, "IL", payload.Addresses[0].StateOrProvince)
}

func TestPrepareCustomerWithoutAddress(t *testing.T) {
	payload, perr := PrepareCustomer(&models.SourceCustomer{
		ID:    2,
		Email: "guest@example.com",
	}, 42)
	require.Nil(t, perr)
	assert.Empty(t, payload.Addresses)
}

func TestPrepareCustomerRequiresEmail(t *testing.T) {
	for _, email := range []string{"", "   ", "not-an-email"} {
		_, perr := PrepareCustomer(&models.SourceCustomer{ID: 3, Email: email}, 42)
		require.NotNil(t, perr, "email %q should be rejected", email)
		assert.Equal(t, "email", perr.Field)
	}
}

func TestPrepareCustomerRejectsBadCountryCode(t *testing.T) {
	_, perr := PrepareCustomer(&models.SourceCustomer{
		ID:          4,
		Email:       "bob@example.com",
		Address1:    "2 Oak Ave",
		CountryCode: "USA",
	}, 42)
	require.NotNil(t, perr)
	assert.Equal(t, "country_code", perr.Field)
}
