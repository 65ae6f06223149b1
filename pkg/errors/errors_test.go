package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CodeMillerArity, "miller index must have 3 or 4 components, got 2")
	assert.Equal(t, "[MILLER_ARITY(30003)] miller index must have 3 or 4 components, got 2", err.Error())

	withDetail := err.WithDetail("token {10}")
	assert.Contains(t, withDetail.Error(), ": token {10}")
	// WithDetail does not mutate the receiver.
	assert.NotContains(t, err.Error(), "token")
}

func TestWrapPreservesChain(t *testing.T) {
	root := fmt.Errorf("connection refused")
	wrapped := Wrap(root, CodeCacheError, "failed to read render cache")

	assert.ErrorIs(t, wrapped, root)
	assert.Equal(t, CodeCacheError, GetCode(wrapped))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeCacheError, "ignored"))
}

func TestWrapUnknownKeepsOriginalCode(t *testing.T) {
	inner := New(CodeLexError, "unexpected character")
	wrapped := Wrap(inner, CodeUnknown, "lexing failed")
	assert.Equal(t, CodeLexError, wrapped.Code)
}

func TestIsCode(t *testing.T) {
	err := Wrap(New(CodeEmptyInput, "blank"), CodeParseError, "parse aborted")
	assert.True(t, IsCode(err, CodeEmptyInput))
	assert.True(t, IsCode(err, CodeParseError))
	assert.False(t, IsCode(err, CodeLexError))
	assert.False(t, IsCode(nil, CodeParseError))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeOK, http.StatusOK},
		{CodeEmptyInput, http.StatusBadRequest},
		{CodeInputTooLong, http.StatusBadRequest},
		{CodeUnresolvedReference, http.StatusBadRequest},
		{CodeLexError, http.StatusBadRequest},
		{CodeParseError, http.StatusBadRequest},
		{CodeMillerArity, http.StatusBadRequest},
		{CodeUnterminatedFeatures, http.StatusBadRequest},
		{CodeUnknownSystem, http.StatusBadRequest},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeGeometryDegenerate, http.StatusInternalServerError},
		{CodeEncodeError, http.StatusInternalServerError},
		{CodeCacheError, http.StatusServiceUnavailable},
		{CodeStorageError, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), "code %s", tt.code)
	}
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(New(CodeMillerArity, "bad arity")))
	assert.True(t, IsUserError(New(CodeUnknownSystem, "bad system")))
	assert.False(t, IsUserError(New(CodeGeometryDegenerate, "no faces")))
	assert.False(t, IsUserError(fmt.Errorf("plain error")))
}

func TestCodeStrings(t *testing.T) {
	require.Equal(t, "EMPTY_INPUT", CodeEmptyInput.String())
	require.Equal(t, "UNKNOWN_TWIN_LAW", CodeUnknownTwinLaw.String())
	require.Equal(t, "UNKNOWN_CODE", ErrorCode(99999).String())
}
