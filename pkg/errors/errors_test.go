package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	meta := MetadataFor(CodeNotFound)
	assert.Equal(t, http.StatusNotFound, meta.HTTPStatus)
	assert.False(t, meta.Retryable)

	meta = MetadataFor(CodeConflict)
	assert.Equal(t, http.StatusConflict, meta.HTTPStatus)
	assert.True(t, meta.Retryable)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOT_A_CODE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "pinging database")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "DEPENDENCY_ERROR: pinging database", err.Error())
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	inner := New(CodeValidation, "quantity must be positive")
	outer := fmt.Errorf("recording movement: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, CodeValidation, typed.Code())
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	assert.Nil(t, As(fmt.Errorf("boom")))
	assert.Nil(t, As(nil))
}

func TestDumpCollectsChain(t *testing.T) {
	inner := New(CodeConflict, "lock contention")
	outer := fmt.Errorf("movement failed: %w", inner)

	dump := Dump(outer)
	assert.Equal(t, CodeConflict, dump.Code)
	assert.Len(t, dump.Chain, 2)
	assert.Equal(t, "movement failed: CONFLICT: lock contention", dump.TopMessage)
}
