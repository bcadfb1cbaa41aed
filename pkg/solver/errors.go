package solver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrInvalidInputType rejects submissions with an unknown input type.
	ErrInvalidInputType = errors.New("solver: invalid input type")
	// ErrEndpointRequired is returned when the client has no endpoint URL.
	ErrEndpointRequired = errors.New("solver: endpoint is required")
)

// Transport error operations.
const (
	OpRequest = "request"
	OpStatus  = "status"
	OpDecode  = "decode"
)

// TransportError covers every failure that prevents a usable reply: the
// request could not complete, the service answered with a non-2xx status, or
// the body did not have the expected shape.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("solver: %s: %s", e.Op, e.Detail())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail is the human readable failure text shown after the generic error
// prefix.
func (e *TransportError) Detail() string {
	if e == nil {
		return ""
	}
	if e.Op == OpStatus {
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}
	if e.Err == nil {
		return e.Op + " failed"
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return "timeout exceeded"
	}
	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return e.Err.Error()
}

// ErrorDetail returns the display detail of any error returned by Solve.
func ErrorDetail(err error) string {
	if err == nil {
		return ""
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Detail()
	}
	return err.Error()
}
