package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/muurk/opcplay/internal/pixel"
)

// Message constructor library for building OPC messages

const (
	// DefaultPort is the registered OPC TCP port
	DefaultPort = 7890

	// BroadcastChannel addresses every output of the controller
	BroadcastChannel = 0

	// HeaderSize is channel + command + 2-byte length
	HeaderSize = 4

	// MaxPayloadSize is the largest payload the 16-bit length can describe
	MaxPayloadSize = 0xFFFF

	// MaxMessagePixels is the largest pixel count a single message can carry
	MaxMessagePixels = MaxPayloadSize / 3

	// MaxStrandPixels is the Fadecandy per-output LED limit. Helpers that
	// fill a whole strand default to this length.
	MaxStrandPixels = 64
)

// Commands
const (
	CmdSetPixelColors  = 0x00
	CmdSystemExclusive = 0xFF
)

var (
	// ErrUnknownOrder is returned when a pixel order is not one of the six
	// supported orders
	ErrUnknownOrder = errors.New("unknown pixel order")

	// ErrPayloadTooLarge is returned when a payload cannot be described by
	// the 16-bit length field
	ErrPayloadTooLarge = errors.New("payload too large")
)

// BuildMessage constructs a complete OPC message with header
//
// Message Structure:
//
//	[0]     channel
//	[1]     command
//	[2-3]   length         Payload length (big-endian uint16)
//	[4+]    payload
//
// Returns an error if the payload exceeds MaxPayloadSize.
func BuildMessage(channel, command byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayloadSize)
	}

	msg := make([]byte, HeaderSize+len(payload))
	msg[0] = channel
	msg[1] = command
	binary.BigEndian.PutUint16(msg[2:4], uint16(len(payload)))
	copy(msg[HeaderSize:], payload)

	return msg, nil
}

// BuildPixelMessage constructs a set-pixel-colors message (command 0x00)
//
// Each pixel contributes three bytes in the given order, so GRB writes
// (green, red, blue). An empty pixel slice yields a header-only message with
// length zero.
//
// Example:
//
//	msg, err := BuildPixelMessage(0, []pixel.Pixel{pixel.New(10, 20, 30)}, pixel.GRB)
//	// msg = 00 00 00 03 14 0a 1e
func BuildPixelMessage(channel byte, pixels []pixel.Pixel, order pixel.Order) ([]byte, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, order)
	}
	if len(pixels) > MaxMessagePixels {
		return nil, fmt.Errorf("%w: %d pixels (max %d)", ErrPayloadTooLarge, len(pixels), MaxMessagePixels)
	}

	msg := make([]byte, HeaderSize+3*len(pixels))
	msg[0] = channel
	msg[1] = CmdSetPixelColors
	binary.BigEndian.PutUint16(msg[2:4], uint16(3*len(pixels)))
	putPixels(msg[HeaderSize:], pixels, order)

	return msg, nil
}

// EncodePixels returns the payload of a set-pixel-colors message
func EncodePixels(pixels []pixel.Pixel, order pixel.Order) ([]byte, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, order)
	}
	payload := make([]byte, 3*len(pixels))
	putPixels(payload, pixels, order)
	return payload, nil
}

func putPixels(dst []byte, pixels []pixel.Pixel, order pixel.Order) {
	for i, p := range pixels {
		dst[3*i], dst[3*i+1], dst[3*i+2] = order.Bytes(p)
	}
}
