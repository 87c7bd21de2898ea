package ebay

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a marketplace provider failure.
type ErrorKind string

// Provider error kinds.
const (
	KindNetwork     ErrorKind = "network"
	KindAuth        ErrorKind = "auth"
	KindRateLimit   ErrorKind = "rate_limit"
	KindUpstream    ErrorKind = "upstream"
	KindBadResponse ErrorKind = "bad_response"
	KindEmptyResult ErrorKind = "empty_result"
)

// ProviderError is returned for every failed call to the eBay APIs. Callers
// branch on Kind; the wrapped error carries the detail.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ebay %s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ebay %s error: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf returns the ProviderError kind of err, or "" if err is not a
// ProviderError.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func newProviderError(kind ErrorKind, status int, err error) *ProviderError {
	return &ProviderError{Kind: kind, StatusCode: status, Err: err}
}

// kindForStatus maps a non-2xx HTTP status onto an error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= http.StatusInternalServerError:
		return KindUpstream
	default:
		return KindBadResponse
	}
}
