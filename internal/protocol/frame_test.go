package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/muurk/opcplay/internal/pixel"
)

func TestReadMessage(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
		verify  func(t *testing.T, msg *Message)
	}{
		{
			name: "pixel message",
			data: []byte{0x01, 0x00, 0x00, 0x06, 1, 2, 3, 4, 5, 6},
			verify: func(t *testing.T, msg *Message) {
				if msg.Channel != 1 {
					t.Errorf("channel = %d, want 1", msg.Channel)
				}
				if msg.Command != CmdSetPixelColors {
					t.Errorf("command = 0x%02x, want 0x00", msg.Command)
				}
				if !bytes.Equal(msg.Data, []byte{1, 2, 3, 4, 5, 6}) {
					t.Errorf("data = %v", msg.Data)
				}
			},
		},
		{
			name: "zero length message",
			data: []byte{0x00, 0x00, 0x00, 0x00},
			verify: func(t *testing.T, msg *Message) {
				if len(msg.Data) != 0 {
					t.Errorf("data length = %d, want 0", len(msg.Data))
				}
			},
		},
		{
			name:    "truncated header",
			data:    []byte{0x00, 0x00},
			wantErr: true,
		},
		{
			name:    "truncated payload",
			data:    []byte{0x00, 0x00, 0x00, 0x06, 1, 2, 3},
			wantErr: true,
		},
		{
			name:    "header without payload",
			data:    []byte{0x00, 0x00, 0x00, 0x06},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ReadMessage(bytes.NewReader(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.verify != nil {
				tt.verify(t, msg)
			}
		})
	}
}

func TestReadMessage_HeaderWithoutPayloadIsNotEOF(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x06}))
	if errors.Is(err, io.EOF) {
		t.Errorf("ReadMessage() error = %v, should not look like a clean close", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadMessage() error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadMessage_Stream(t *testing.T) {
	var stream bytes.Buffer
	first, _ := BuildPixelMessage(0, []pixel.Pixel{pixel.Red}, pixel.RGB)
	second := BuildStatusLED(true)
	third, _ := BuildPixelMessage(2, nil, pixel.RGB)
	stream.Write(first)
	stream.Write(second)
	stream.Write(third)

	var got []*Message
	for {
		msg, err := ReadMessage(&stream)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadMessage() error: %v", err)
		}
		got = append(got, msg)
	}

	if len(got) != 3 {
		t.Fatalf("read %d messages, want 3", len(got))
	}
	if got[0].Command != CmdSetPixelColors || len(got[0].Data) != 3 {
		t.Errorf("first message = %s", got[0])
	}
	if got[1].Command != CmdSystemExclusive {
		t.Errorf("second message = %s", got[1])
	}
	if got[2].Channel != 2 || len(got[2].Data) != 0 {
		t.Errorf("third message = %s", got[2])
	}
}

func TestParseMessage(t *testing.T) {
	if _, err := ParseMessage([]byte{0x00}); err == nil {
		t.Error("expected error for short message")
	}
	if _, err := ParseMessage([]byte{0x00, 0x00, 0x00, 0x03, 1, 2}); err == nil {
		t.Error("expected error for length mismatch")
	}

	data := []byte{0x05, 0x00, 0x00, 0x03, 9, 8, 7}
	msg, err := ParseMessage(data)
	if err != nil {
		t.Fatal(err)
	}
	out, err := msg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("Bytes() = %v, want %v", out, data)
	}
}

func TestMessage_Pixels(t *testing.T) {
	msg := &Message{Command: CmdSystemExclusive, Data: []byte{1, 2, 3}}
	if _, err := msg.Pixels(pixel.RGB); !errors.Is(err, ErrNotPixelMessage) {
		t.Errorf("error = %v, want ErrNotPixelMessage", err)
	}

	msg = &Message{Command: CmdSetPixelColors, Data: []byte{1, 2, 3, 4}}
	pixels, err := msg.Pixels(pixel.RGB)
	if err != nil {
		t.Fatal(err)
	}
	if len(pixels) != 1 || pixels[0] != pixel.New(1, 2, 3) {
		t.Errorf("pixels = %v, want [(1,2,3)]", pixels)
	}
}

func TestMessage_FirmwareConfig(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
	}{
		{"pixel command", &Message{Command: CmdSetPixelColors, Data: []byte{0, 1, 0, 2, 3}}},
		{"wrong length", &Message{Command: CmdSystemExclusive, Data: []byte{0, 1, 0, 2}}},
		{"wrong system id", &Message{Command: CmdSystemExclusive, Data: []byte{0, 9, 0, 2, 3}}},
		{"wrong sysex id", &Message{Command: CmdSystemExclusive, Data: []byte{0, 1, 0, 1, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.msg.FirmwareConfig(); !errors.Is(err, ErrNotFirmwareConfig) {
				t.Errorf("error = %v, want ErrNotFirmwareConfig", err)
			}
		})
	}
}

func TestMessage_String(t *testing.T) {
	msg := &Message{Channel: 1, Command: 0x42, Data: []byte{1}}
	if got := msg.String(); got != "Message{Channel=1, Command=unknown(0x42), Length=1}" {
		t.Errorf("String() = %q", got)
	}
}
