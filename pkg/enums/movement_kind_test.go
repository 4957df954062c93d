package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovementKind(t *testing.T) {
	kind, err := ParseMovementKind("sale")
	require.NoError(t, err)
	assert.Equal(t, MovementKindSale, kind)

	_, err = ParseMovementKind("restock")
	assert.Error(t, err)
}

func TestMovementKindDecrements(t *testing.T) {
	assert.True(t, MovementKindSale.Decrements())
	assert.False(t, MovementKindPurchase.Decrements())
	assert.False(t, MovementKindReturn.Decrements())
	assert.False(t, MovementKindAdjustment.Decrements())
}

func TestMovementKindIsValid(t *testing.T) {
	for _, kind := range validMovementKinds {
		assert.True(t, kind.IsValid())
	}
	assert.False(t, MovementKind("").IsValid())
}
