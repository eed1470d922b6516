package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/opcplay/internal/logging"
	"go.uber.org/zap"
)

// WebSocketSink writes each OPC message as one binary WebSocket message
type WebSocketSink struct {
	conn         *websocket.Conn
	url          string
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// WebSocketURL returns the fcserver WebSocket endpoint for host:port
func WebSocketURL(host string, port int) string {
	return fmt.Sprintf("ws://%s/", Address(host, port))
}

// DialWebSocket connects to a WebSocket endpoint that accepts binary OPC
// messages
func DialWebSocket(ctx context.Context, url string, opts Options) (*WebSocketSink, error) {
	opts = opts.withDefaults()

	dialer := websocket.Dialer{HandshakeTimeout: opts.DialTimeout}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, Classify(err, "dial", url)
	}

	logging.LogConnection(url, "connected")

	return &WebSocketSink{
		conn:         conn,
		url:          url,
		writeTimeout: opts.WriteTimeout,
	}, nil
}

// Write sends one complete message as a binary frame
func (s *WebSocketSink) Write(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Classify(ErrNotConnected, "write", s.url)
	}

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return s.breakLocked(Classify(err, "write", s.url))
	}
	// gorilla connections are unusable after a failed write
	if err := s.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		return s.breakLocked(Classify(err, "write", s.url))
	}

	logging.LogMessage("sent", s.url, msg)
	return nil
}

// breakLocked drops the connection after a failed write. Caller holds s.mu.
func (s *WebSocketSink) breakLocked(err *Error) error {
	s.closed = true
	logging.Warn("Write failed, dropping connection",
		zap.String("url", s.url),
		zap.String("kind", err.Kind.String()),
		zap.Error(err.Err),
	)
	logging.LogConnection(s.url, "broken")
	_ = s.conn.Close()
	return err
}

// Close sends a close frame and closes the connection
func (s *WebSocketSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	logging.LogConnection(s.url, "disconnected")

	deadline := time.Now().Add(s.writeTimeout)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

	if err := s.conn.Close(); err != nil {
		return Classify(err, "close", s.url)
	}
	return nil
}

// Connected reports whether the sink is still usable. It turns false after
// Close or after any failed write.
func (s *WebSocketSink) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}
