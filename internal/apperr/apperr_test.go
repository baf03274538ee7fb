package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"keepsake-backend/internal/apperr"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := apperr.NotFound("page not found", errors.New("sql: no rows in result set"))
	wrapped := fmt.Errorf("failed to load page: %w", base)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
	assert.Equal(t, "page not found", apperr.Message(wrapped))
}

func TestKindOf_PlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "internal error", apperr.Message(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:  http.StatusBadRequest,
		apperr.KindNotFound:    http.StatusNotFound,
		apperr.KindForbidden:   http.StatusForbidden,
		apperr.KindConflict:    http.StatusConflict,
		apperr.KindRateLimited: http.StatusTooManyRequests,
		apperr.KindCapture:     http.StatusServiceUnavailable,
		apperr.KindInternal:    http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, apperr.HTTPStatus(kind), kind.String())
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, apperr.KindRateLimited.Retryable())
	assert.True(t, apperr.KindCapture.Retryable())
	assert.False(t, apperr.KindValidation.Retryable())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("network down")
	err := apperr.E(apperr.KindTransient, "upload failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upload failed: network down", err.Error())
}
