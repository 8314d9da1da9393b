package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeInsufficientStock, status: http.StatusBadRequest, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeNotCancellable, status: http.StatusBadRequest, publicMsg: "order cannot be cancelled"},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		assert.Equal(t, tt.status, meta.HTTPStatus, "status for %s", tt.code)
		assert.Equal(t, tt.publicMsg, meta.PublicMessage, "public message for %s", tt.code)
		assert.Equal(t, tt.retryable, meta.Retryable, "retryable for %s", tt.code)
		assert.Equal(t, tt.detailsOK, meta.DetailsAllowed, "details for %s", tt.code)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	require.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
	require.False(t, meta.ExposeMessage)
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "items must not be empty")
	require.Equal(t, CodeValidation, base.Code())
	require.Equal(t, "items must not be empty", base.Message())
	require.Nil(t, base.Details())

	base.WithDetails(map[string]any{"field": "items"})
	require.NotNil(t, base.Details())

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	require.True(t, stdErrors.Is(wrapped, cause))
	require.Equal(t, CodeConflict, wrapped.Code())
	require.Contains(t, wrapped.Error(), "boom")
}

func TestAsAndIsWalkTheChain(t *testing.T) {
	err := fmt.Errorf("placing order: %w", New(CodeInsufficientStock, "insufficient stock for Paracetamol"))

	typed := As(err)
	require.NotNil(t, typed)
	require.Equal(t, CodeInsufficientStock, typed.Code())
	require.True(t, Is(err, CodeInsufficientStock))
	require.False(t, Is(err, CodeNotFound))
	require.Nil(t, As(nil))
	require.Nil(t, As(stdErrors.New("plain")))
}
