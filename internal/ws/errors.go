package ws

import (
	"errors"
	"fmt"
)

var ErrConnectionRefused = errors.New("connection refused")
var ErrTimeout = errors.New("no frame before timeout")

// TransportError is any connect/send/receive fault that is not a refusal,
// a timeout or a normal close.
type TransportError struct {
	Op  string // "dial" | "send" | "receive"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ClosedError reports that the peer closed the session. Code is -1 when the
// close frame carried no status.
type ClosedError struct {
	Code   int
	Reason string
}

func (e *ClosedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("connection closed (%d)", e.Code)
	}
	return fmt.Sprintf("connection closed (%d: %s)", e.Code, e.Reason)
}
