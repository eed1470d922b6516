package protocol

import (
	"bytes"
	"testing"
)

func TestBuildFirmwareMessages(t *testing.T) {
	header := []byte{0x00, 0xFF, 0x00, 0x05, 0x00, 0x01, 0x00, 0x02}

	tests := []struct {
		name string
		msg  []byte
		want byte
	}{
		{"dithering disabled", BuildDitheringAndInterpolation(false), 0b00000011},
		{"dithering enabled", BuildDitheringAndInterpolation(true), 0x00},
		{"status led on", BuildStatusLED(true), 0b00001100},
		{"status led off", BuildStatusLED(false), 0x00},
		{"raw config", BuildFirmwareConfig(0x07), 0x07},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := append(append([]byte{}, header...), tt.want)
			if !bytes.Equal(tt.msg, want) {
				t.Errorf("message = %v, want %v", tt.msg, want)
			}

			msg, err := ParseMessage(tt.msg)
			if err != nil {
				t.Fatalf("ParseMessage() error: %v", err)
			}
			if len(msg.Data) != FirmwareConfigLength {
				t.Errorf("length = %d, want %d", len(msg.Data), FirmwareConfigLength)
			}
			config, err := msg.FirmwareConfig()
			if err != nil {
				t.Fatalf("FirmwareConfig() error: %v", err)
			}
			if config != tt.want {
				t.Errorf("config = 0b%08b, want 0b%08b", config, tt.want)
			}
		})
	}
}

func TestBuildFirmwareConfig_FreshBuffer(t *testing.T) {
	a := BuildFirmwareConfig(0x01)
	a[0] = 0x99
	b := BuildFirmwareConfig(0x01)
	if b[0] != 0x00 {
		t.Error("header buffer is shared between messages")
	}
}
