package domain

import (
	"context"
	"errors"
)

// Error kinds. Adapters wrap their failures with one of these so the
// orchestrator can decide between retrying, skipping and failing.
var (
	ErrConfig        = errors.New("invalid configuration")
	ErrTransient     = errors.New("transient external error")
	ErrRateLimited   = errors.New("rate limited")
	ErrRejected      = errors.New("rejected by platform")
	ErrNotFound      = errors.New("not found")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrGeneration    = errors.New("generation failed")
	ErrPersistence   = errors.New("persistence failed")
	ErrCancelled     = errors.New("cancelled")
)

// IsRetryable reports whether err is worth another attempt with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited)
}

// KindOf returns a stable name for the error kind carried by err.
// The most specific kind wins: a generation error caused by an exhausted
// quota is reported as "generation".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, ErrGeneration):
		return "generation"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return "transient"
	default:
		return "unknown"
	}
}
