package ads

import (
	"context"
	"errors"
	"fmt"
)

// ErrorDomain is reported on every error raised by this package and the
// simulated network.
const ErrorDomain = "rewarded.ads"

// ErrorCode classifies load and show failures.
type ErrorCode int

const (
	CodeInternal       ErrorCode = iota // Collaborator-side failure
	CodeInvalidRequest                  // Bad placement id or request
	CodeNetwork                         // Transport failure
	CodeNoFill                          // Request succeeded but no ad was available
	CodeTimeout                         // Request deadline exceeded
	CodeCancelled                       // Request context cancelled
	CodeAlreadyShown                    // Ad object was already presented once
	CodeNotReady                        // Ad could not be rendered
)

func (c ErrorCode) String() string {
	switch c {
	case CodeInternal:
		return "internal"
	case CodeInvalidRequest:
		return "invalid_request"
	case CodeNetwork:
		return "network"
	case CodeNoFill:
		return "no_fill"
	case CodeTimeout:
		return "timeout"
	case CodeCancelled:
		return "cancelled"
	case CodeAlreadyShown:
		return "already_shown"
	case CodeNotReady:
		return "not_ready"
	default:
		return "unknown"
	}
}

// LoadError reports why an ad request was rejected.
type LoadError struct {
	Code    ErrorCode
	Message string
	Domain  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed (code=%s, domain=%s): %s", e.Code, e.Domain, e.Message)
}

// ShowError reports why a loaded ad could not be presented.
type ShowError struct {
	Code    ErrorCode
	Message string
	Domain  string
}

func (e *ShowError) Error() string {
	return fmt.Sprintf("show failed (code=%s, domain=%s): %s", e.Code, e.Domain, e.Message)
}

// NewLoadError builds a LoadError in ErrorDomain.
func NewLoadError(code ErrorCode, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...), Domain: ErrorDomain}
}

// NewShowError builds a ShowError in ErrorDomain.
func NewShowError(code ErrorCode, format string, args ...any) *ShowError {
	return &ShowError{Code: code, Message: fmt.Sprintf(format, args...), Domain: ErrorDomain}
}

// ContextLoadError converts a context error into a LoadError.
func ContextLoadError(err error) *LoadError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewLoadError(CodeTimeout, "request timed out")
	}
	return NewLoadError(CodeCancelled, "request cancelled: %v", err)
}

// ErrorCodeOf extracts the code from a LoadError or ShowError anywhere in
// err's chain. Other errors report CodeInternal.
func ErrorCodeOf(err error) ErrorCode {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var se *ShowError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}
