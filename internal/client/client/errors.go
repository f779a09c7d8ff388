package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/pmconsole/internal/validate"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
	ErrUnavailable  = errors.New("server unavailable")
)

// Kind classifies a failure for presentation.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuthentication
	KindPermission
	KindNotFound
	KindRateLimit
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unexpected"
	}
}

// APIError is returned for every failed call: Status is 0 when no response
// was received, in which case Err holds the transport error.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	// Field names the input the backend rejected, when it says so.
	Field string
	Err   error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is lets callers match an APIError against the package sentinels.
func (e *APIError) Is(target error) bool {
	s := sentinelFor(e.Kind())
	return s != nil && s == target
}

func (e *APIError) Kind() Kind {
	switch {
	case e.Status == 0:
		return KindNetwork
	case e.Status == http.StatusUnauthorized:
		return KindAuthentication
	case e.Status == http.StatusForbidden:
		return KindPermission
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status == http.StatusUnprocessableEntity:
		return KindValidation
	case e.Status == http.StatusTooManyRequests:
		return KindRateLimit
	case e.Status >= 500:
		return KindServer
	default:
		return KindUnexpected
	}
}

func sentinelFor(k Kind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindAuthentication:
		return ErrUnauthorized
	case KindPermission:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindRateLimit:
		return ErrRateLimited
	case KindServer:
		return ErrServer
	case KindNetwork:
		return ErrUnavailable
	}
	return nil
}

// Classify maps any error produced by the console to a Kind.
func Classify(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	var vErr *validate.Error
	if errors.As(err, &vErr) || errors.Is(err, ErrValidation) {
		return KindValidation
	}
	return KindUnexpected
}

// UserMessage returns the short banner text for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		return vErr.Message
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind() {
	case KindAuthentication:
		return "Authentication error. Please log in again."
	case KindPermission:
		return "You do not have permission to perform this action"
	case KindNotFound:
		return "Resource not found"
	case KindValidation:
		return "Validation failed. Please check your input."
	case KindRateLimit:
		return "Too many requests. Please try again later."
	case KindServer:
		return "Server error. Please try again later."
	case KindNetwork:
		return "Network error. Please check your connection."
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return "An unexpected error occurred"
}
