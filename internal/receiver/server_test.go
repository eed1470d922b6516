package receiver

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type collector struct {
	mu   sync.Mutex
	msgs []*protocol.Message
}

func (c *collector) handle(_ string, msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) waitFor(t *testing.T, n int) []*protocol.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.msgs) >= n {
			out := append([]*protocol.Message(nil), c.msgs...)
			c.mu.Unlock()
			return out
		}
		c.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d messages", n)
	return nil
}

func startServer(t *testing.T, handler Handler) (*Server, context.CancelFunc, <-chan error) {
	t.Helper()

	srv, err := New(&Config{Host: "127.0.0.1"}, handler)
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(cancel)

	return srv, cancel, done
}

func TestServer_DecodesStream(t *testing.T) {
	var c collector
	srv, _, _ := startServer(t, c.handle)

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	pixels, _ := protocol.BuildPixelMessage(2, []pixel.Pixel{pixel.Red, pixel.Blue}, pixel.RGB)
	stream := append(append([]byte{}, pixels...), protocol.BuildStatusLED(true)...)

	// split writes across message boundaries
	if _, err := conn.Write(stream[:5]); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := conn.Write(stream[5:]); err != nil {
		t.Fatal(err)
	}

	msgs := c.waitFor(t, 2)
	if msgs[0].Channel != 2 {
		t.Errorf("channel = %d, want 2", msgs[0].Channel)
	}
	got, err := msgs[0].Pixels(pixel.RGB)
	if err != nil || len(got) != 2 || got[0] != pixel.Red || got[1] != pixel.Blue {
		t.Errorf("pixels = %v, %v", got, err)
	}
	if cfg, err := msgs[1].FirmwareConfig(); err != nil || cfg != protocol.ConfigStatusLEDOn {
		t.Errorf("config = %v, %v", cfg, err)
	}
}

func TestServer_LogsTruncatedMessage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(nil)

	var c collector
	srv, _, _ := startServer(t, c.handle)

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatal(err)
	}

	// one whole message, then a header announcing 6 bytes followed by 2
	whole, _ := protocol.BuildPixelMessage(0, []pixel.Pixel{pixel.Green}, pixel.RGB)
	stream := append(append([]byte{}, whole...), 0x00, 0x00, 0x00, 0x06, 0x01, 0x02)
	if _, err := conn.Write(stream); err != nil {
		t.Fatal(err)
	}
	_ = conn.Close()

	c.waitFor(t, 1)

	deadline := time.Now().Add(2 * time.Second)
	for logs.FilterMessage("Partial OPC message").Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("truncated message was not logged")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx := logs.FilterMessage("Partial OPC message").All()[0].ContextMap()
	if ctx["hex"] != "000000060102" {
		t.Errorf("hex = %v, want only the truncated message", ctx["hex"])
	}
	if logs.FilterMessage("Connection closed by client").Len() != 0 {
		t.Error("truncated stream was logged as a clean close")
	}
}

func TestServer_Shutdown(t *testing.T) {
	var c collector
	srv, cancel, done := startServer(t, c.handle)

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.GetActiveConnections() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("connection was not tracked")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if n := srv.GetActiveConnections(); n != 0 {
		t.Errorf("active connections = %d, want 0", n)
	}
}

func TestNew_RequiresHandler(t *testing.T) {
	if _, err := New(&Config{}, nil); err == nil {
		t.Error("expected error for nil handler")
	}
}
