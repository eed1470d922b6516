package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/muurk/opcplay/internal/pixel"
)

var (
	// ErrNotPixelMessage is returned when decoding pixels from a message
	// with a command other than set-pixel-colors
	ErrNotPixelMessage = errors.New("not a set-pixel-colors message")

	// ErrNotFirmwareConfig is returned when a message is not a Fadecandy
	// firmware configuration packet
	ErrNotFirmwareConfig = errors.New("not a firmware configuration message")
)

// Message represents a decoded OPC message
type Message struct {
	Channel byte
	Command byte
	Data    []byte
}

// ReadMessage reads one OPC message from the reader. It consumes exactly the
// header and the number of payload bytes announced by the length field.
func ReadMessage(r io.Reader) (*Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("failed to read message header: %w", err)
		}
		// Clean EOF between messages is passed through unwrapped
		return nil, err
	}

	msg := &Message{
		Channel: header[0],
		Command: header[1],
	}

	length := binary.BigEndian.Uint16(header[2:4])
	msg.Data = make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, msg.Data); err != nil {
			// EOF after a header is a truncated message, not a clean close
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("failed to read payload (%d bytes): %w", length, err)
		}
	}

	return msg, nil
}

// ParseMessage decodes a single complete message from a byte slice. Trailing
// bytes are an error.
func ParseMessage(data []byte) (*Message, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("message too short: %d bytes (min %d)", len(data), HeaderSize)
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if len(data) != HeaderSize+length {
		return nil, fmt.Errorf("length mismatch: header says %d payload bytes, got %d", length, len(data)-HeaderSize)
	}
	return &Message{
		Channel: data[0],
		Command: data[1],
		Data:    append([]byte(nil), data[HeaderSize:]...),
	}, nil
}

// Bytes re-encodes the message
func (m *Message) Bytes() ([]byte, error) {
	return BuildMessage(m.Channel, m.Command, m.Data)
}

// Pixels decodes a set-pixel-colors payload using the given order. A trailing
// partial pixel is ignored, as OPC servers do.
func (m *Message) Pixels(order pixel.Order) ([]pixel.Pixel, error) {
	if m.Command != CmdSetPixelColors {
		return nil, ErrNotPixelMessage
	}
	if !order.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, order)
	}
	pixels := make([]pixel.Pixel, len(m.Data)/3)
	for i := range pixels {
		pixels[i] = order.Pixel(m.Data[3*i], m.Data[3*i+1], m.Data[3*i+2])
	}
	return pixels, nil
}

// FirmwareConfig returns the configuration byte of a Fadecandy firmware
// configuration message
func (m *Message) FirmwareConfig() (byte, error) {
	if m.Command != CmdSystemExclusive || len(m.Data) != FirmwareConfigLength {
		return 0, ErrNotFirmwareConfig
	}
	if binary.BigEndian.Uint16(m.Data[0:2]) != SystemIDFadecandy ||
		binary.BigEndian.Uint16(m.Data[2:4]) != SysexFirmwareConfig {
		return 0, ErrNotFirmwareConfig
	}
	return m.Data[4], nil
}

// CommandString returns a human-readable command name
func (m *Message) CommandString() string {
	switch m.Command {
	case CmdSetPixelColors:
		return "set-pixel-colors"
	case CmdSystemExclusive:
		return "system-exclusive"
	default:
		return fmt.Sprintf("unknown(0x%02X)", m.Command)
	}
}

// String returns a debug representation of the message
func (m *Message) String() string {
	return fmt.Sprintf("Message{Channel=%d, Command=%s, Length=%d}",
		m.Channel, m.CommandString(), len(m.Data))
}
