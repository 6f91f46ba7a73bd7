// Package resilience provides the retry policy and failure taxonomy shared by
// every external provider call in the resolution pipeline.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// FailureKind classifies a provider failure for the retry policy.
type FailureKind string

const (
	// KindUnavailable covers network errors, timeouts, rate limits and non-2xx
	// responses. Retried with backoff, then degraded to a fallback item.
	KindUnavailable FailureKind = "provider_unavailable"
	// KindMalformed covers unexpected response shapes. Not retried; the
	// offending field is defaulted at the boundary.
	KindMalformed FailureKind = "malformed_response"
	// KindEmptyResults means the provider answered but returned nothing
	// usable. Treated as a retryable attempt failure.
	KindEmptyResults FailureKind = "empty_results"
	// KindMissingCredentials means the provider cannot be called at all.
	// Never retried; callers go straight to the fallback path.
	KindMissingCredentials FailureKind = "missing_credentials"
)

// ProviderError tags an error from an external provider with a failure kind.
type ProviderError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with a failure kind and optional HTTP status.
func NewProviderError(kind FailureKind, statusCode int, err error) *ProviderError {
	return &ProviderError{Kind: kind, StatusCode: statusCode, Err: err}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report KindUnavailable when they look like transport failures, otherwise
// KindMalformed.
func KindOf(err error) FailureKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if isTransportError(err) {
		return KindUnavailable
	}
	return KindMalformed
}

// IsRetryable reports whether a failed provider attempt should be retried.
// Unavailable providers and empty result sets feed the same retry signal;
// malformed responses and missing credentials do not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case KindUnavailable, KindEmptyResults:
			return true
		default:
			return false
		}
	}

	return isTransportError(err)
}

func isTransportError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String heuristics for errors wrapped by HTTP clients.
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"i/o timeout",
		"context deadline exceeded",
		"tls handshake timeout",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
