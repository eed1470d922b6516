package player

import (
	"time"

	"github.com/muurk/opcplay/internal/pixel"
)

// Frame is one unit of animation playback: pixels shown for Delay
type Frame struct {
	Pixels []pixel.Pixel
	Delay  time.Duration
}

// Animation is a finite sequence of frames played back to back
type Animation struct {
	Frames []Frame
}

// Duration returns the sum of all frame delays
func (a Animation) Duration() time.Duration {
	var d time.Duration
	for _, f := range a.Frames {
		d += f.Delay
	}
	return d
}

// ring is the fixed-size rotating buffer used by chase and cycle loops.
// Rotation only moves the read position; the pixel values never change.
type ring struct {
	pixels []pixel.Pixel
	head   int
}

func newRing(seed []pixel.Pixel) *ring {
	return &ring{pixels: append([]pixel.Pixel(nil), seed...)}
}

// rotate moves the front pixel to the back
func (r *ring) rotate() {
	if len(r.pixels) == 0 {
		return
	}
	r.head = (r.head + 1) % len(r.pixels)
}

// frame returns the buffer contents starting at the front
func (r *ring) frame() []pixel.Pixel {
	out := make([]pixel.Pixel, len(r.pixels))
	n := copy(out, r.pixels[r.head:])
	copy(out[n:], r.pixels[:r.head])
	return out
}
