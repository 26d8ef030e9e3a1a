package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUnavailable indicates the transport failed entirely: no response
	// was received. Operations hitting this are queued and retried on
	// reconnect.
	ErrUnavailable = errors.New("remote service unreachable")

	// ErrNotFound indicates the remote has no record for the requested id.
	ErrNotFound = errors.New("remote record not found")
)

// Rejection is a structured non-2xx response from the remote service.
// The request itself is the problem (validation, auth), so rejections are
// surfaced to the caller and never retried automatically.
type Rejection struct {
	StatusCode int
	Detail     string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("remote rejected request (status %d): %s", e.StatusCode, e.Detail)
}

// IsUnavailable reports whether err represents a network-level failure,
// as opposed to a structured rejection or not-found response.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

// AsRejection unwraps err into a *Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
