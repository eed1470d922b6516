package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/opcplay/internal/pixel"
)

// RenderStrip draws pixels as colored blocks, wrapping every width pixels.
// A width below 1 renders a single row.
func RenderStrip(pixels []pixel.Pixel, width int) string {
	if len(pixels) == 0 {
		return ""
	}
	if width < 1 {
		width = len(pixels)
	}

	var b strings.Builder
	for i, p := range pixels {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(p.Hex())).Render(PixelBlock))
	}
	return b.String()
}
