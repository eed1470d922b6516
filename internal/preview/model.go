package preview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/protocol"
)

// FrameMsg carries one decoded pixel message
type FrameMsg struct {
	From    string
	Channel byte
	Pixels  []pixel.Pixel
}

// ConfigMsg carries a firmware configuration byte
type ConfigMsg struct {
	From   string
	Config byte
}

type keyMap struct {
	Pause key.Binding
	Clear key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings for the short help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Clear, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Clear, k.Quit}}
}

func defaultKeys() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model shows the most recent frame received on each channel
type Model struct {
	listen string
	width  int

	channels map[byte][]pixel.Pixel
	frames   int
	last     string

	config    byte
	hasConfig bool

	paused bool

	keys keyMap
	help help.Model
}

// NewModel creates a preview for a receiver listening on addr
func NewModel(addr string) Model {
	return Model{
		listen:   addr,
		width:    GetTerminalWidth(),
		channels: make(map[byte][]pixel.Pixel),
		keys:     defaultKeys(),
		help:     help.New(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(max(msg.Width, MinTerminalWidth), MaxContentWidth)
		m.help.Width = m.width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Clear):
			m.channels = make(map[byte][]pixel.Pixel)
			m.frames = 0
		}

	case FrameMsg:
		if m.paused {
			return m, nil
		}
		m.channels[msg.Channel] = msg.Pixels
		m.frames++
		m.last = msg.From

	case ConfigMsg:
		m.config = msg.Config
		m.hasConfig = true
		m.last = msg.From
	}

	return m, nil
}

// Frames returns the number of pixel frames shown so far
func (m Model) Frames() int {
	return m.frames
}

// Channel returns the latest frame for a channel
func (m Model) Channel(ch byte) ([]pixel.Pixel, bool) {
	p, ok := m.channels[ch]
	return p, ok
}

// Paused reports whether incoming frames are being ignored
func (m Model) Paused() bool {
	return m.paused
}

// View implements tea.Model
func (m Model) View() string {
	inner := m.width - 4 // border and padding

	var lines []string

	title := titleStyle.Render("OPC preview")
	if m.paused {
		title += "  " + pausedStyle.Render("PAUSED")
	}
	lines = append(lines, title)
	lines = append(lines, m.field("Listening", m.listen))
	lines = append(lines, m.field("Frames", fmt.Sprintf("%d", m.frames)))
	if m.last != "" {
		lines = append(lines, m.field("Last sender", m.last))
	}
	if m.hasConfig {
		lines = append(lines, m.field("Firmware", describeConfig(m.config)))
	}
	lines = append(lines, "")

	if len(m.channels) == 0 {
		lines = append(lines, labelStyle.Render("Waiting for frames..."))
	}

	keys := make([]byte, 0, len(m.channels))
	for ch := range m.channels {
		keys = append(keys, ch)
	}
	slices.Sort(keys)

	stripWidth := max(inner-lipgloss.Width(channelStyle.Render("")), 1)
	for _, ch := range keys {
		label := channelStyle.Render(fmt.Sprintf("ch %d", ch))
		strip := RenderStrip(m.channels[ch], stripWidth)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, strip))
	}

	box := boxStyle(m.width).Render(strings.Join(lines, "\n"))
	return box + "\n" + m.help.View(m.keys) + "\n"
}

func (m Model) field(label, value string) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(value)
}

func describeConfig(config byte) string {
	var parts []string
	if config&protocol.ConfigDitherInterpolationOff != 0 {
		parts = append(parts, "dithering off")
	} else {
		parts = append(parts, enabledStyle.Render("dithering on"))
	}
	if config&protocol.ConfigStatusLEDOn != 0 {
		parts = append(parts, enabledStyle.Render("LED on"))
	} else {
		parts = append(parts, "LED off")
	}
	return strings.Join(parts, ", ")
}
