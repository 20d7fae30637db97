package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRequester struct {
	results map[string]*bigcommerce.Result
	calls   []string
}

func (s *stubRequester) Request(_ context.Context, method, endpoint string, _ interface{}) (*bigcommerce.Result, error) {
	key := method + " " + endpoint
	s.calls = append(s.calls, key)
	if res, ok := s.results[key]; ok {
		return res, nil
	}
	return &bigcommerce.Result{Error: "no stub for " + key}, nil
}

func TestFetchProductOptionValues(t *testing.T) {
	stub := &stubRequester{results: map[string]*bigcommerce.Result{
		"GET v3/catalog/products/42/options": {Data: map[string]interface{}{
			"data": []interface{}{
				map[string]interface{}{
					"id":           float64(10),
					"display_name": "Size",
					"option_values": []interface{}{
						map[string]interface{}{"id": float64(100), "label": "M"},
						map[string]interface{}{"id": float64(101), "label": "L"},
					},
				},
				map[string]interface{}{
					"id":           float64(11),
					"display_name": "Color",
					"option_values": []interface{}{
						map[string]interface{}{"id": float64(110), "label": "Red"},
					},
				},
			},
		}},
	}}

	values, err := FetchProductOptionValues(context.Background(), stub, 42)
	require.NoError(t, err)

	require.Len(t, values, 3)
	assert.Equal(t, bigcommerce.VariantOptionValue{OptionID: 10, ID: 100}, values["pa_size=M"])
	assert.Equal(t, bigcommerce.VariantOptionValue{OptionID: 10, ID: 101}, values["pa_size=L"])
	assert.Equal(t, bigcommerce.VariantOptionValue{OptionID: 11, ID: 110}, values["pa_color=Red"])
	assert.Equal(t, []string{"GET v3/catalog/products/42/options"}, stub.calls)
}

func TestFetchProductOptionValuesRemoteFailure(t *testing.T) {
	stub := &stubRequester{results: map[string]*bigcommerce.Result{}}

	_, err := FetchProductOptionValues(context.Background(), stub, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch options")
}

func TestRequestFailureMessage(t *testing.T) {
	// A transport error means res is nil; the message must come from the error.
	assert.Equal(t, "dial tcp: connection refused",
		requestFailureMessage(nil, errors.New("dial tcp: connection refused")))
	assert.Equal(t, "422 Unprocessable Entity",
		requestFailureMessage(&bigcommerce.Result{Error: "422 Unprocessable Entity"}, nil))
}

var _ Requester = (*stubRequester)(nil)
