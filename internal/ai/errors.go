package ai

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"
	"keepsake-backend/internal/apperr"
)

// Classify maps a Gemini error onto an application error kind using the
// HTTP status carried by genai.APIError.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.E(apperr.KindTransient, "the AI service took too long, try again", err)
	}

	code, ok := statusCode(err)
	if !ok {
		return apperr.E(apperr.KindTransient, "the AI service is unavailable", err)
	}

	switch {
	case code == http.StatusTooManyRequests:
		return apperr.E(apperr.KindRateLimited, "too many AI requests, try again shortly", err)
	case code == http.StatusBadRequest:
		return apperr.E(apperr.KindValidation, "the AI service rejected the request", err)
	case code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusNotFound:
		return apperr.E(apperr.KindInternal, "AI service is misconfigured", err)
	case code >= http.StatusInternalServerError:
		return apperr.E(apperr.KindTransient, "the AI service is unavailable", err)
	default:
		return apperr.E(apperr.KindInternal, "unexpected AI service error", err)
	}
}

func statusCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
