package player

import (
	"context"
	"fmt"
	"time"

	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/pixel"
	"go.uber.org/zap"
)

const (
	blinkIterations = 20
	blinkFadeDelay  = 150 * time.Millisecond
	blinkBaseFloor  = 128
	colorTestHold   = time.Second
)

// chaseSeed is the head of the single LED chase
var chaseSeed = []pixel.Pixel{
	pixel.New(100, 100, 100),
	pixel.New(180, 180, 180),
	pixel.New(255, 255, 255),
	pixel.New(180, 160, 180),
	pixel.New(100, 100, 100),
}

// blinkPalette is the set blink base colors are drawn from
var blinkPalette = []pixel.Pixel{pixel.Red, pixel.Yellow, pixel.Green, pixel.Blue}

// begin claims the client for one animation
func (c *Client) begin(name string) (func(), error) {
	if !c.playMu.TryLock() {
		return nil, fmt.Errorf("%s: %w", name, ErrBusy)
	}
	logging.Info("Animation started", zap.String("animation", name))
	return func() {
		logging.Info("Animation finished", zap.String("animation", name))
		c.playMu.Unlock()
	}, nil
}

// PlayAnimation plays every frame in order, pausing for each frame's delay.
// It returns after the last frame, on the first write error, or when ctx is
// cancelled.
func (c *Client) PlayAnimation(ctx context.Context, anim Animation) error {
	done, err := c.begin("animation")
	if err != nil {
		return err
	}
	defer done()

	for i, frame := range anim.Frames {
		if err := c.WriteTimedFrame(ctx, frame); err != nil {
			return fmt.Errorf("frame %d of %d: %w", i+1, len(anim.Frames), err)
		}
	}
	return nil
}

// Chase runs a short bright head around the strand, one position per frame,
// until ctx is cancelled
func (c *Client) Chase(ctx context.Context, frameDelay time.Duration) error {
	done, err := c.begin("chase")
	if err != nil {
		return err
	}
	defer done()

	c.enableSmoothing()

	n := max(c.Config().StrandLength, len(chaseSeed))
	seed := make([]pixel.Pixel, n)
	copy(seed, chaseSeed)

	return c.rotate(ctx, "chase", seed, frameDelay)
}

// RainbowCycle sweeps the full hue circle across the strand and rotates it
// until ctx is cancelled
func (c *Client) RainbowCycle(ctx context.Context, frameDelay time.Duration) error {
	done, err := c.begin("rainbow")
	if err != nil {
		return err
	}
	defer done()

	c.enableSmoothing()

	n := c.Config().StrandLength
	seed := make([]pixel.Pixel, n)
	step := 360.0 / float64(n)
	for i := range seed {
		seed[i] = pixel.FromHue(float64(i) * step)
	}

	return c.rotate(ctx, "rainbow", seed, frameDelay)
}

// rotate is the shared body of the free-running loops. Write errors are
// logged and the loop continues.
func (c *Client) rotate(ctx context.Context, name string, seed []pixel.Pixel, frameDelay time.Duration) error {
	buf := newRing(seed)
	failures := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf.rotate()
		if err := c.WriteFrame(buf.frame()); err != nil {
			failures++
			if failures == 1 {
				logging.Warn("Frame write failed, continuing",
					zap.String("animation", name),
					zap.Error(err),
				)
			}
		} else if failures > 0 {
			logging.Info("Frame writes recovered",
				zap.String("animation", name),
				zap.Int("failed_frames", failures),
			)
			failures = 0
		}

		if err := c.pause(ctx, frameDelay); err != nil {
			return err
		}
	}
}

// BlinkRandomThenBright shows random base colors at randomly varying
// brightness, then the base colors, a brightened version and finally dark.
func (c *Client) BlinkRandomThenBright(ctx context.Context) error {
	done, err := c.begin("blink")
	if err != nil {
		return err
	}
	defer done()

	c.enableSmoothing()

	n := c.Config().StrandLength
	base := make([]pixel.Pixel, n)
	bright := make([]pixel.Pixel, n)
	for i := range base {
		base[i] = blinkPalette[c.randIntN(len(blinkPalette))]
		bright[i] = base[i].Floor(blinkBaseFloor)
	}

	for i := 0; i < blinkIterations; i++ {
		if err := c.pause(ctx, blinkFadeDelay); err != nil {
			return err
		}
		fade := c.randFloat()
		frame := make([]pixel.Pixel, n)
		for j, p := range base {
			frame[j] = p.Scale(fade)
		}
		if err := c.WriteFrame(frame); err != nil {
			return err
		}
	}

	dark := c.SingleColorFrame(pixel.Dark)
	finale := []Frame{
		{Delay: 500 * time.Millisecond, Pixels: base},
		{Delay: 1000 * time.Millisecond, Pixels: bright},
		{Delay: 1000 * time.Millisecond, Pixels: dark},
		{Delay: 200 * time.Millisecond, Pixels: dark},
	}
	for _, f := range finale {
		if err := c.pause(ctx, f.Delay); err != nil {
			return err
		}
		if err := c.WriteFrame(f.Pixels); err != nil {
			return err
		}
	}
	return nil
}

// RGBYColorTest disables smoothing and shows red, yellow, green and blue on
// the first four pixels, holding them for a second. It verifies the pixel
// order setting against the hardware.
func (c *Client) RGBYColorTest(ctx context.Context) error {
	done, err := c.begin("rgby")
	if err != nil {
		return err
	}
	defer done()

	if err := c.SetDitheringAndInterpolation(false); err != nil {
		return err
	}
	return c.WriteTimedFrame(ctx, Frame{
		Pixels: []pixel.Pixel{pixel.Red, pixel.Yellow, pixel.Green, pixel.Blue},
		Delay:  colorTestHold,
	})
}

// enableSmoothing restores firmware dithering and interpolation. A failure
// is logged; the animation itself reports write errors.
func (c *Client) enableSmoothing() {
	if err := c.SetDitheringAndInterpolation(true); err != nil {
		logging.Warn("Failed to enable dithering and interpolation", zap.Error(err))
	}
}

func (c *Client) randIntN(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.IntN(n)
}

func (c *Client) randFloat() float64 {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Float64()
}
