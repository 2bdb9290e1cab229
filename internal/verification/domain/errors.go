package domain

import (
	"errors"
	"fmt"
)

// TransportError reports a failure talking to an external provider: network
// error, auth rejection, non-2xx status, or an unparseable payload. It is
// always transient from the caller's point of view; the polling loop logs it
// and retries until its deadline. The absence of a code is never an error.
type TransportError struct {
	Op         string // operation that failed, e.g. "list_messages"
	StatusCode int    // HTTP status if one was received, 0 otherwise
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
