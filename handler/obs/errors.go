package obs

import (
	"errors"
	"fmt"

	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

var (
	ErrNotConnected         = errors.New("obs: connect before building requests")
	ErrAlreadyConnected     = errors.New("obs: already connected or connecting")
	ErrCallbackContext      = errors.New("obs: blocking completion called from a callback; use Queue or Submit")
	ErrRequestTimeout       = errors.New("obs: request timed out")
	ErrConnectTimeout       = errors.New("obs: timed out waiting for handshake")
	ErrPasswordRequired     = errors.New("obs: server requires authentication but no password was given")
	ErrAuthenticationFailed = errors.New("obs: authentication failed")
	ErrConnectionClosed     = errors.New("obs: connection closed")
	ErrUnknownRequestID     = errors.New("obs: response for unknown request id")
	ErrCallbackPanic        = errors.New("obs: callback panicked")
	ErrPending              = errors.New("obs: future not settled")

	ErrMalformedMessage = obsapi.ErrMalformedMessage
)

// ConnectionError is returned by Connect. Cause is the innermost error of
// the transport failure, or the handshake error.
type ConnectionError struct {
	Address string
	Cause   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("obs: connect %s: %v", e.Address, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// FailedRequestError describes a request the server answered with
// requestStatus.result false, or whose responseData could not be parsed.
type FailedRequestError struct {
	RequestType string
	Code        int
	Comment     string
	// RawResponse is the full response frame.
	RawResponse string
}

func (e *FailedRequestError) Error() string {
	if e.Comment == "" {
		return fmt.Sprintf("obs: %s failed with code %d", e.RequestType, e.Code)
	}
	return fmt.Sprintf("obs: %s failed with code %d: %s", e.RequestType, e.Code, e.Comment)
}

// innermost walks single-error wrap chains down to the last non-nil cause.
func innermost(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
