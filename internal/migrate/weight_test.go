package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeightSingleValue(t *testing.T) {
	w, ok := NormalizeWeight("500")
	require.True(t, ok)
	assert.Equal(t, 500.0, w.Grams)
	assert.Equal(t, 17.64, w.Ounces)
	assert.False(t, w.HasRange)
}

func TestNormalizeWeightRange(t *testing.T) {
	w, ok := NormalizeWeight("100-200")
	require.True(t, ok)
	assert.True(t, w.HasRange)
	assert.Equal(t, 200.0, w.Grams)
	assert.Equal(t, "100-200", w.RangeText)
	assert.Equal(t, 7.05, w.Ounces)
}

func TestNormalizeWeightShiftedDecimal(t *testing.T) {
	// "29-3.5" is a data-entry defect for 2.9-3.5.
	w, ok := NormalizeWeight("29-3.5")
	require.True(t, ok)
	assert.True(t, w.HasRange)
	assert.Equal(t, "2.9-3.5", w.RangeText)
	assert.Equal(t, 3.5, w.Grams)
	assert.Equal(t, 0.12, w.Ounces)
}

func TestNormalizeWeightDashVariants(t *testing.T) {
	w, ok := NormalizeWeight("2.9–3.5")
	require.True(t, ok)
	assert.True(t, w.HasRange)
	assert.Equal(t, 3.5, w.Grams)
}

func TestNormalizeWeightJunkInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "n/a", "abc"} {
		_, ok := NormalizeWeight(raw)
		assert.False(t, ok, "input %q should not parse", raw)
	}
}

func TestNormalizeWeightUnitSuffix(t *testing.T) {
	w, ok := NormalizeWeight("250g")
	require.True(t, ok)
	assert.Equal(t, 250.0, w.Grams)
}
