package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypes_HTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		typ    ErrorType
		status int
	}{
		{"rate limited", RateLimitedError("slow down"), TypeRateLimited, http.StatusTooManyRequests},
		{"internal", InternalError("boom", nil), TypeInternal, http.StatusInternalServerError},
		{"unknown type", &Error{Type: "weird"}, "weird", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	cause := fmt.Errorf("securecookie: the value is too long")
	err := InternalError("failed to save session", cause)

	assert.Equal(t, "internal: failed to save session: securecookie: the value is too long", err.Error())
	assert.Equal(t, cause, err.Cause)
}

func TestError_MessageWithoutCause(t *testing.T) {
	err := RateLimitedError("rate limit exceeded")

	assert.Equal(t, "rate_limited: rate limit exceeded", err.Error())
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestError_Unwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := InternalError("save failed", sentinel)

	assert.ErrorIs(t, err, sentinel)
}

func TestWithField(t *testing.T) {
	err := RateLimitedError("rate limit exceeded").
		WithField("route", "/").
		WithField("retry_after", 100)

	assert.Equal(t, "/", err.Context["route"])
	assert.Equal(t, 100, err.Context["retry_after"])
}

func TestWithField_NilContext(t *testing.T) {
	err := &Error{Type: TypeInternal, Message: "x"}
	err.WithField("k", "v")

	assert.Equal(t, "v", err.Context["k"])
}

func TestToResponse(t *testing.T) {
	resp := RateLimitedError("rate limit exceeded").WithField("route", "/register").ToResponse()

	assert.Equal(t, "rate limit exceeded", resp.Error)
	assert.Equal(t, TypeRateLimited, resp.Type)
	assert.Equal(t, "/register", resp.Context["route"])
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("already structured", func(t *testing.T) {
		orig := RateLimitedError("slow down")
		assert.Same(t, orig, AsStructuredError(orig))
	})

	t.Run("wrapped structured", func(t *testing.T) {
		orig := InternalError("save failed", nil)
		got := AsStructuredError(fmt.Errorf("handler: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("disk on fire")
		got := AsStructuredError(cause)
		require.NotNil(t, got)
		assert.Equal(t, TypeInternal, got.Type)
		assert.Equal(t, "internal server error", got.Message)
		assert.ErrorIs(t, got, cause)
	})
}
