// Package player drives OPC playback: it encodes pixel frames, paces them and
// forwards the bytes to a transport sink.
//
// A Client owns one sink at a time and allows at most one message in flight.
// Finite animations return on the first write error. The free-running loops
// (Chase, RainbowCycle) keep going across write errors, logging them, and
// stop only when their context is cancelled; there is no retry or backoff.
package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/protocol"
	"github.com/muurk/opcplay/internal/transport"
	"go.uber.org/zap"
)

var (
	// ErrSessionActive is returned when session properties are changed
	// while connected
	ErrSessionActive = errors.New("session is active; disconnect first")

	// ErrAlreadyConnected is returned by Connect and Attach when a sink is
	// already attached
	ErrAlreadyConnected = errors.New("already connected")

	// ErrBusy is returned when an animation is started while another one is
	// playing on the same client
	ErrBusy = errors.New("another animation is playing")
)

// State is the playback state of a Client
type State int32

const (
	StateIdle      State = iota
	StateStreaming       // a message write is in flight
	StateSuspended       // waiting out a pacing delay
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateSuspended:
		return "suspended"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// SleepFunc suspends for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Client
type Option func(*Client)

// WithDialer replaces the dialer selected by Config.Transport
func WithDialer(d transport.Dialer) Option {
	return func(c *Client) { c.dial = d }
}

// WithRand sets the random source used by randomized animations
func WithRand(r *rand.Rand) Option {
	return func(c *Client) { c.rng = r }
}

// WithSleep replaces the pacing sleep
func WithSleep(fn SleepFunc) Option {
	return func(c *Client) { c.sleep = fn }
}

// Client is an OPC session bound to one controller
type Client struct {
	mu   sync.Mutex // guards cfg and sink
	cfg  Config
	sink transport.Sink

	dial transport.Dialer

	writeMu sync.Mutex // one message in flight
	playMu  sync.Mutex // one animation at a time
	state   atomic.Int32

	rngMu sync.Mutex
	rng   *rand.Rand
	sleep SleepFunc
}

// New creates a disconnected client
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		cfg:   cfg,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dial == nil {
		dial, err := transport.NewDialer(cfg.Transport, transport.DefaultOptions())
		if err != nil {
			return nil, err
		}
		c.dial = dial
	}

	return c, nil
}

// Config returns a copy of the session properties
func (c *Client) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// State returns the current playback state
func (c *Client) State() State {
	return State(c.state.Load())
}

// Connect dials the configured server
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connectedLocked() {
		return ErrAlreadyConnected
	}

	sink, err := c.dial(ctx, c.cfg.Server, c.cfg.Port)
	if err != nil {
		return fmt.Errorf("connect to %s:%d: %w", c.cfg.Server, c.cfg.Port, err)
	}
	c.sink = sink

	logging.Info("Connected to OPC server",
		zap.String("server", c.cfg.Server),
		zap.Int("port", c.cfg.Port),
		zap.Stringer("order", c.cfg.Order),
		zap.String("transport", string(c.cfg.Transport)),
	)
	return nil
}

// Attach uses an already connected sink instead of dialing
func (c *Client) Attach(sink transport.Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connectedLocked() {
		return ErrAlreadyConnected
	}
	c.sink = sink
	return nil
}

// Disconnect closes the sink. It waits for an in-flight write to finish.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	sink := c.sink
	c.sink = nil
	c.mu.Unlock()

	if sink == nil {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return sink.Close()
}

// Connected reports whether a connected sink is attached
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectedLocked()
}

func (c *Client) connectedLocked() bool {
	return c.sink != nil && c.sink.Connected()
}

// update applies fn to the config unless a session is active
func (c *Client) update(fn func(cfg *Config)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connectedLocked() {
		return ErrSessionActive
	}

	next := c.cfg
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	c.cfg = next
	return nil
}

// SetServer changes the server address
func (c *Client) SetServer(server string) error {
	return c.update(func(cfg *Config) { cfg.Server = server })
}

// SetPort changes the server port
func (c *Client) SetPort(port int) error {
	return c.update(func(cfg *Config) { cfg.Port = port })
}

// SetPixelOrder changes the channel order used for encoding
func (c *Client) SetPixelOrder(order pixel.Order) error {
	return c.update(func(cfg *Config) { cfg.Order = order })
}

// SetStrandLength changes the pixel count of full-strand helpers
func (c *Client) SetStrandLength(n int) error {
	return c.update(func(cfg *Config) { cfg.StrandLength = n })
}

// send writes one complete message. Nothing is written when no sink is
// connected.
func (c *Client) send(msg []byte) error {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()

	if sink == nil || !sink.Connected() {
		logging.Warn("Not connected, message skipped",
			zap.Int("length", len(msg)),
		)
		return transport.ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.state.Store(int32(StateStreaming))
	defer c.state.Store(int32(StateIdle))

	if err := sink.Write(msg); err != nil {
		return err
	}

	logging.Debug("Message sent",
		zap.Uint8("channel", msg[0]),
		zap.Int("bytes", len(msg)),
	)
	return nil
}

// pause suspends for d; the delay starts when pause is called, i.e. after the
// preceding write has completed
func (c *Client) pause(ctx context.Context, d time.Duration) error {
	c.state.Store(int32(StateSuspended))
	defer c.state.Store(int32(StateIdle))
	return c.sleep(ctx, d)
}

// WriteFrame encodes and sends pixels on the configured channel without delay
func (c *Client) WriteFrame(pixels []pixel.Pixel) error {
	return c.WriteFrameChannel(c.Config().Channel, pixels)
}

// WriteFrameChannel encodes and sends pixels on a specific channel
func (c *Client) WriteFrameChannel(channel byte, pixels []pixel.Pixel) error {
	msg, err := protocol.BuildPixelMessage(channel, pixels, c.Config().Order)
	if err != nil {
		return err
	}
	return c.send(msg)
}

// WriteTimedFrame sends the frame's pixels, then suspends for its delay
func (c *Client) WriteTimedFrame(ctx context.Context, frame Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.WriteFrame(frame.Pixels); err != nil {
		return err
	}
	return c.pause(ctx, frame.Delay)
}

// SingleColorFrame returns a full strand of p
func (c *Client) SingleColorFrame(p pixel.Pixel) []pixel.Pixel {
	return pixel.Fill(p, c.Config().StrandLength)
}

// TurnOffAll writes a dark strand twice in a row. The second write makes the
// controller snap to black instead of interpolating toward it.
func (c *Client) TurnOffAll() error {
	frame := c.SingleColorFrame(pixel.Dark)
	if err := c.WriteFrame(frame); err != nil {
		return err
	}
	return c.WriteFrame(frame)
}

// SetStatusLED turns the controller's status LED on or off
func (c *Client) SetStatusLED(on bool) error {
	return c.send(protocol.BuildStatusLED(on))
}

// SetDitheringAndInterpolation enables (the firmware default) or disables
// dithering and keyframe interpolation
func (c *Client) SetDitheringAndInterpolation(enabled bool) error {
	return c.send(protocol.BuildDitheringAndInterpolation(enabled))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
