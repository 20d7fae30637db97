package bigcommerce

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return NewClient("https://api.bigcommerce.com", "abc123", "token", 5*time.Second)
}

func TestRequestSuccess(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost,
		"https://api.bigcommerce.com/stores/abc123/v3/catalog/products",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "token", req.Header.Get("X-Auth-Token"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewJsonResponse(http.StatusOK,
				map[string]interface{}{"data": map[string]interface{}{"id": 123}})
		})

	res, err := newTestClient().Request(context.Background(),
		http.MethodPost, "v3/catalog/products", ProductPayload{Name: "Test"})
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Equal(t, int64(123), ObjInt64(res.DataObject(), "id"))
}

func TestRequestAPIError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost,
		"https://api.bigcommerce.com/stores/abc123/v3/catalog/products",
		httpmock.NewStringResponder(http.StatusUnprocessableEntity,
			`{"title":"Validation failed","errors":{"name":"required"}}`))

	res, err := newTestClient().Request(context.Background(),
		http.MethodPost, "v3/catalog/products", ProductPayload{})
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, "API error 422: Validation failed", res.Error)
	require.NotNil(t, res.Details)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Details.StatusCode)
	assert.Contains(t, res.Details.RawBody, "Validation failed")
}

func TestRequestNonJSONBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet,
		"https://api.bigcommerce.com/stores/abc123/v2/store",
		httpmock.NewStringResponder(http.StatusOK, "<html>maintenance</html>"))

	res, err := newTestClient().Request(context.Background(), http.MethodGet, "v2/store", nil)
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, "invalid JSON in response body", res.Error)
}

func TestRequestEmptyBodyIsSuccess(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodDelete,
		"https://api.bigcommerce.com/stores/abc123/v3/catalog/products/9",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	res, err := newTestClient().Request(context.Background(),
		http.MethodDelete, "v3/catalog/products/9", nil)
	require.NoError(t, err)
	assert.False(t, res.Failed())
}

func TestRequestTransportFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	// No responder registered; httpmock rejects the connection.

	res, err := newTestClient().Request(context.Background(), http.MethodGet, "v2/store", nil)
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Contains(t, res.Error, "transport failure")
}

func TestDataArrayEnvelope(t *testing.T) {
	res := &Result{Data: map[string]interface{}{
		"data": []interface{}{
			map[string]interface{}{"id": float64(1)},
			map[string]interface{}{"id": float64(2)},
		},
	}}
	assert.Len(t, res.DataArray(), 2)
}
