package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationStatusIDExplicit(t *testing.T) {
	assert.Equal(t, 7, DestinationStatusID("pending"))
	assert.Equal(t, 7, DestinationStatusID("on-hold"))
	assert.Equal(t, 11, DestinationStatusID("processing"))
	assert.Equal(t, 10, DestinationStatusID("completed"))
	assert.Equal(t, 5, DestinationStatusID("cancelled"))
	assert.Equal(t, 4, DestinationStatusID("refunded"))
	assert.Equal(t, 6, DestinationStatusID("failed"))
	assert.Equal(t, 2, DestinationStatusID("shipped"))
}

func TestDestinationStatusIDPrefixAndCase(t *testing.T) {
	assert.Equal(t, 10, DestinationStatusID("wc-completed"))
	assert.Equal(t, 7, DestinationStatusID("  On-Hold "))
}

func TestDestinationStatusIDSubstringFallback(t *testing.T) {
	// Custom workflow statuses fall through to substring rules.
	assert.Equal(t, 11, DestinationStatusID("ready-to-ship"))
	assert.Equal(t, 5, DestinationStatusID("cancel-requested"))
	assert.Equal(t, 10, DestinationStatusID("partially-completed"))
}

func TestDestinationStatusIDUnknown(t *testing.T) {
	assert.Equal(t, 1, DestinationStatusID("some-custom-state"))
	assert.Equal(t, 1, DestinationStatusID(""))
}
