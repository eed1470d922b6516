package player

import (
	"errors"
	"fmt"

	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/protocol"
	"github.com/muurk/opcplay/internal/transport"
)

const (
	// DefaultServer is the address of a locally running fcserver
	DefaultServer = "127.0.0.1"

	// DefaultOrder matches WS2811/WS2812 strands
	DefaultOrder = pixel.GRB
)

// Config holds the session properties of a Client. They can only be changed
// while the client is disconnected.
type Config struct {
	Server       string
	Port         int
	Order        pixel.Order
	Channel      byte // 0 = broadcast
	StrandLength int  // pixels written by full-strand helpers
	Transport    transport.Type
}

// DefaultConfig returns a configuration for a local fcserver
func DefaultConfig() Config {
	return Config{
		Server:       DefaultServer,
		Port:         protocol.DefaultPort,
		Order:        DefaultOrder,
		Channel:      protocol.BroadcastChannel,
		StrandLength: protocol.MaxStrandPixels,
		Transport:    transport.TypeTCP,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	var errs []error

	if c.Server == "" {
		errs = append(errs, errors.New("server is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	if !c.Order.Valid() {
		errs = append(errs, fmt.Errorf("%w: %s", protocol.ErrUnknownOrder, c.Order))
	}
	if c.StrandLength < 1 || c.StrandLength > protocol.MaxMessagePixels {
		errs = append(errs, fmt.Errorf("strand length %d out of range 1-%d", c.StrandLength, protocol.MaxMessagePixels))
	}
	if _, err := transport.ParseType(string(c.Transport)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
