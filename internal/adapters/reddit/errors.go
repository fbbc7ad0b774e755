package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// classify maps go-reddit failures onto the domain error kinds.
func classify(op string, err error) error {
	var (
		rateErr *reddit.RateLimitError
		jsonErr *reddit.JSONErrorResponse
		respErr *reddit.ErrorResponse
	)
	switch {
	case errors.As(err, &rateErr):
		return fmt.Errorf("%w: reddit %s: %v", domain.ErrRateLimited, op, err)
	case errors.As(err, &jsonErr):
		return fmt.Errorf("%w: reddit %s: %s", domain.ErrRejected, op, jsonErrorText(jsonErr))
	case errors.As(err, &respErr):
		code := 0
		if respErr.Response != nil {
			code = respErr.Response.StatusCode
		}
		return fmt.Errorf("%w: reddit %s: %v", statusKind(code), op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: reddit %s: %v", domain.ErrTransient, op, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("reddit %s: %w", op, err)
	default:
		// network failures below the HTTP layer
		return fmt.Errorf("%w: reddit %s: %v", domain.ErrTransient, op, err)
	}
}

func statusKind(code int) error {
	switch {
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	case code == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case code == http.StatusUnauthorized:
		return domain.ErrConfig
	case code == http.StatusForbidden, code == http.StatusConflict, code == http.StatusUnprocessableEntity:
		return domain.ErrRejected
	case code >= 500, code == http.StatusRequestTimeout:
		return domain.ErrTransient
	default:
		return domain.ErrRejected
	}
}

func jsonErrorText(e *reddit.JSONErrorResponse) string {
	if e == nil || len(e.JSON.Errors) == 0 {
		return "request rejected"
	}
	parts := make([]string, 0, len(e.JSON.Errors))
	for _, ae := range e.JSON.Errors {
		parts = append(parts, ae.Label+": "+ae.Reason)
	}
	return strings.Join(parts, "; ")
}
