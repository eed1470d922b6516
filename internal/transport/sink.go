// Package transport provides the byte sinks that OPC messages are written to.
//
// A Sink owns no pixel logic: it accepts finished message buffers and reports
// whether it is connected. Two implementations are provided, a plain TCP
// connection (the standard OPC transport) and a WebSocket connection (Fadecandy
// fcserver accepts OPC messages as binary WebSocket messages).
//
// Sinks do not retry or reconnect. A failed write is returned to the caller
// as a classified *Error.
package transport

import (
	"context"
	"fmt"
	"time"
)

// Sink is a connected, write-only message stream. Each Write carries exactly
// one complete OPC message. Implementations serialise concurrent writes so
// messages are never interleaved on the wire.
type Sink interface {
	Write(msg []byte) error
	Close() error
	Connected() bool
}

// Type selects a transport implementation
type Type string

const (
	TypeTCP       Type = "tcp"
	TypeWebSocket Type = "websocket"
)

const (
	// DefaultDialTimeout bounds connection establishment
	DefaultDialTimeout = 5 * time.Second

	// DefaultWriteTimeout bounds a single message write
	DefaultWriteTimeout = 2 * time.Second
)

// Options configure a sink
type Options struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultOptions returns the default sink options
func DefaultOptions() Options {
	return Options{
		DialTimeout:  DefaultDialTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	return o
}

// Dialer opens a sink to host:port
type Dialer func(ctx context.Context, host string, port int) (Sink, error)

// ParseType parses a transport name. The empty string selects TCP.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeTCP, "":
		return TypeTCP, nil
	case TypeWebSocket, "ws":
		return TypeWebSocket, nil
	default:
		return "", fmt.Errorf("unknown transport %q (want tcp or websocket)", s)
	}
}

// NewDialer returns the dialer for a transport type
func NewDialer(typ Type, opts Options) (Dialer, error) {
	typ, err := ParseType(string(typ))
	if err != nil {
		return nil, err
	}

	if typ == TypeWebSocket {
		return func(ctx context.Context, host string, port int) (Sink, error) {
			sink, err := DialWebSocket(ctx, WebSocketURL(host, port), opts)
			if err != nil {
				return nil, err
			}
			return sink, nil
		}, nil
	}

	return func(ctx context.Context, host string, port int) (Sink, error) {
		sink, err := DialTCP(ctx, Address(host, port), opts)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}, nil
}
