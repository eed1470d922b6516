package preview

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muurk/opcplay/internal/protocol"
)

// Printer writes one plain line per message. It is used when stdout is not a
// terminal.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Frame prints a pixel frame as hex colors
func (p *Printer) Frame(msg FrameMsg) {
	hex := make([]string, len(msg.Pixels))
	for i, px := range msg.Pixels {
		hex[i] = px.Hex()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s ch=%d n=%d %s\n", msg.From, msg.Channel, len(msg.Pixels), strings.Join(hex, " "))
}

// Config prints a firmware configuration message
func (p *Printer) Config(msg ConfigMsg) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s firmware config=0x%02x dithering=%t led=%t\n",
		msg.From, msg.Config,
		msg.Config&protocol.ConfigDitherInterpolationOff == 0,
		msg.Config&protocol.ConfigStatusLEDOn != 0)
}
