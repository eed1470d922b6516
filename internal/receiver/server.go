// Package receiver implements a minimal OPC server. It accepts client
// connections, decodes the message stream and hands each message to a
// Handler. It is used to inspect what a client sends and as the far end of
// end-to-end tests.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/protocol"
	"go.uber.org/zap"
)

// Handler is called for every decoded message. Calls for one connection are
// sequential; calls for different connections may be concurrent.
type Handler func(remoteAddr string, msg *protocol.Message)

// Config holds the server configuration
type Config struct {
	Host string
	Port int // 0 picks a free port
}

// Server is an OPC receiver
type Server struct {
	config      *Config
	handler     Handler
	listener    net.Listener
	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]net.Conn
}

// New creates a new Server instance
func New(config *Config, handler Handler) (*Server, error) {
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	return &Server{
		config:      config,
		handler:     handler,
		activeConns: make(map[string]net.Conn),
	}, nil
}

// Listen binds the listening socket without accepting connections
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	logging.Info("OPC receiver listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address, nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then shuts down
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.acceptConnections()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// acceptConnections accepts and handles incoming connections
func (s *Server) acceptConnections() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.Error("Failed to accept connection", zap.Error(err))
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection reads messages until the client disconnects
func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()

	s.mu.Lock()
	s.activeConns[remoteAddr] = conn
	s.mu.Unlock()

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.activeConns, remoteAddr)
		s.mu.Unlock()
		logging.LogConnection(remoteAddr, "connection_closed")
	}()

	logging.LogConnection(remoteAddr, "connection_accepted")

	tap := &headTap{r: conn}
	messageNum := 0
	for {
		tap.reset()
		msg, err := protocol.ReadMessage(tap)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				logging.Info("Connection closed by client", zap.String("remote_addr", remoteAddr))
			} else {
				logging.Warn("Error reading message",
					zap.String("remote_addr", remoteAddr),
					zap.Int("messages", messageNum),
					zap.Error(err),
				)
				if len(tap.head) > 0 {
					logging.LogRawBytes("Partial OPC message", tap.head)
				}
			}
			return
		}

		messageNum++
		logging.Debug("OPC message received",
			zap.String("remote_addr", remoteAddr),
			zap.Int("message_num", messageNum),
			zap.Stringer("message", msg),
		)
		s.handler(remoteAddr, msg)
	}
}

// headTapBytes is how much of each message headTap keeps
const headTapBytes = 64

// headTap remembers the first bytes of the message currently being read
type headTap struct {
	r    io.Reader
	head []byte
}

func (t *headTap) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if room := headTapBytes - len(t.head); room > 0 && n > 0 {
		t.head = append(t.head, p[:min(n, room)]...)
	}
	return n, err
}

func (t *headTap) reset() {
	t.head = t.head[:0]
}

// Shutdown closes the listener and all active connections, then waits for
// connection handlers to return
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down receiver...")

	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logging.Error("Error closing listener", zap.Error(err))
		}
	}

	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Debug("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
		return ctx.Err()
	}
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}
