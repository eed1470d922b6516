package transport

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/muurk/opcplay/internal/logging"
	"go.uber.org/zap"
)

// TCPSink writes OPC messages to a TCP connection
type TCPSink struct {
	conn         net.Conn
	addr         string
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// Address joins host and port
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// DialTCP connects to an OPC server. Nagle's algorithm is disabled so each
// frame leaves immediately.
func DialTCP(ctx context.Context, addr string, opts Options) (*TCPSink, error) {
	opts = opts.withDefaults()

	d := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, Classify(err, "dial", addr)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			logging.Warn("Failed to disable Nagle", zap.String("addr", addr), zap.Error(err))
		}
	}

	logging.LogConnection(addr, "connected")

	return NewTCPSink(conn, opts), nil
}

// NewTCPSink wraps an established connection
func NewTCPSink(conn net.Conn, opts Options) *TCPSink {
	opts = opts.withDefaults()
	return &TCPSink{
		conn:         conn,
		addr:         conn.RemoteAddr().String(),
		writeTimeout: opts.WriteTimeout,
	}
}

// Write sends one complete message. Any failed or short write leaves the
// stream misaligned, so the sink closes itself and Connected reports false.
func (s *TCPSink) Write(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Classify(ErrNotConnected, "write", s.addr)
	}

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return s.breakLocked(Classify(err, "write", s.addr), 0, len(msg))
	}

	// net.Conn.Write loops until all bytes are written or an error occurs
	if n, err := s.conn.Write(msg); err != nil {
		return s.breakLocked(Classify(err, "write", s.addr), n, len(msg))
	}

	logging.LogMessage("sent", s.addr, msg)
	return nil
}

// breakLocked drops the connection after a failed write. Caller holds s.mu.
func (s *TCPSink) breakLocked(err *Error, written, total int) error {
	s.closed = true
	logging.Warn("Write failed, dropping connection",
		zap.String("addr", s.addr),
		zap.String("kind", err.Kind.String()),
		zap.Int("written", written),
		zap.Int("total", total),
		zap.Error(err.Err),
	)
	logging.LogConnection(s.addr, "broken")
	_ = s.conn.Close()
	return err
}

// Close closes the connection. Closing twice is a no-op.
func (s *TCPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	logging.LogConnection(s.addr, "disconnected")

	if err := s.conn.Close(); err != nil {
		return Classify(err, "close", s.addr)
	}
	return nil
}

// Connected reports whether the sink is still usable. It turns false after
// Close or after any failed write.
func (s *TCPSink) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Addr returns the remote address
func (s *TCPSink) Addr() string {
	return s.addr
}
