package preview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/protocol"
)

// Decode turns a received OPC message into a FrameMsg or ConfigMsg.
// Pixel data is decoded using the strand's pixel order.
func Decode(from string, msg *protocol.Message, order pixel.Order) (tea.Msg, error) {
	switch msg.Command {
	case protocol.CmdSetPixelColors:
		pixels, err := msg.Pixels(order)
		if err != nil {
			return nil, err
		}
		return FrameMsg{From: from, Channel: msg.Channel, Pixels: pixels}, nil

	case protocol.CmdSystemExclusive:
		config, err := msg.FirmwareConfig()
		if err != nil {
			return nil, err
		}
		return ConfigMsg{From: from, Config: config}, nil
	}

	return nil, fmt.Errorf("unsupported command %s", msg.CommandString())
}
