package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned when a write is attempted without an
// established sink
var ErrNotConnected = errors.New("not connected")

// ErrorKind represents the category of transport error
type ErrorKind int

const (
	// KindNetwork indicates a generic network-level error
	KindNetwork ErrorKind = iota
	// KindTimeout indicates a dial or write deadline was exceeded
	KindTimeout
	// KindConnectionRefused indicates the controller refused the connection
	KindConnectionRefused
	// KindDNS indicates a DNS resolution failure
	KindDNS
	// KindClosed indicates the connection was closed by either side
	KindClosed
	// KindNotConnected indicates no connection was established
	KindNotConnected
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "Network Error"
	case KindTimeout:
		return "Timeout"
	case KindConnectionRefused:
		return "Connection Refused"
	case KindDNS:
		return "DNS Error"
	case KindClosed:
		return "Connection Closed"
	case KindNotConnected:
		return "Not Connected"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is a classified transport failure
type Error struct {
	Kind      ErrorKind // Category of error
	Op        string    // "dial", "write" or "close"
	Addr      string    // Remote address
	Err       error     // Underlying error
	Retryable bool      // Whether retrying could succeed
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s (caused by: %v)", e.Kind, e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s: %s %s", e.Kind, e.Op, e.Addr)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify analyzes an error returned by a dial or write and wraps it in an
// *Error. It returns nil for a nil error.
func Classify(err error, op, addr string) *Error {
	if err == nil {
		return nil
	}

	var te *Error
	if errors.As(err, &te) {
		return te
	}

	e := &Error{Kind: KindNetwork, Op: op, Addr: addr, Err: err}

	var dnsErr *net.DNSError
	var closeErr *websocket.CloseError

	switch {
	case errors.Is(err, ErrNotConnected):
		e.Kind = KindNotConnected
	case os.IsTimeout(err):
		e.Kind = KindTimeout
		e.Retryable = true
	case errors.As(err, &dnsErr):
		e.Kind = KindDNS
		e.Retryable = dnsErr.IsTemporary
	case errors.Is(err, syscall.ECONNREFUSED):
		e.Kind = KindConnectionRefused
		e.Retryable = true
	case errors.Is(err, net.ErrClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, websocket.ErrCloseSent),
		errors.As(err, &closeErr):
		e.Kind = KindClosed
		e.Retryable = true
	}

	return e
}

// IsRetryable reports whether err is a transport error worth retrying
func IsRetryable(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}
