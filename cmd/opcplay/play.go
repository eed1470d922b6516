package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/opcplay/internal/config"
	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/player"
)

var frameDelay time.Duration

func init() {
	rootCmd.AddCommand(solidCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(chaseCmd)
	rootCmd.AddCommand(rainbowCmd)
	rootCmd.AddCommand(blinkCmd)
	rootCmd.AddCommand(rgbyCmd)
	rootCmd.AddCommand(statusLEDCmd)
	rootCmd.AddCommand(ditherCmd)

	for _, cmd := range []*cobra.Command{chaseCmd, rainbowCmd} {
		cmd.Flags().DurationVar(&frameDelay, "delay", 50*time.Millisecond, "Delay between frames")
	}
}

// delayFor returns --delay, or the saved preference when the flag is unset
func delayFor(cmd *cobra.Command) time.Duration {
	if cmd.Flags().Changed("delay") {
		return frameDelay
	}
	registry, err := config.LoadRegistry()
	if err != nil || registry.Preferences == nil || registry.Preferences.FrameDelayMs <= 0 {
		return frameDelay
	}
	return msDuration(registry.Preferences.FrameDelayMs)
}

var solidCmd = &cobra.Command{
	Use:   "solid <color>",
	Short: "Set every pixel to one color",
	Long: `Set every pixel on the strand to one color.

The color is a name (red, green, blue, yellow, white, off) or a hex value.`,
	Example: `  opcplay solid red
  opcplay solid '#ff8000' --server 192.168.1.40
  opcplay solid blue --channel 2 --strand 50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, err := pixel.Parse(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *player.Client) error {
			return c.WriteFrame(c.SingleColorFrame(color))
		})
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn every pixel off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *player.Client) error {
			return c.TurnOffAll()
		})
	},
}

var chaseCmd = &cobra.Command{
	Use:   "chase",
	Short: "Run a bright single-LED chase around the strand",
	Example: `  opcplay chase
  opcplay chase --delay 20ms`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		delay := delayFor(cmd)
		return runUntilInterrupted(cmd, "chase", func(ctx context.Context, c *player.Client) error {
			return c.Chase(ctx, delay)
		})
	},
}

var rainbowCmd = &cobra.Command{
	Use:   "rainbow",
	Short: "Cycle a rainbow around the strand",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		delay := delayFor(cmd)
		return runUntilInterrupted(cmd, "rainbow", func(ctx context.Context, c *player.Client) error {
			return c.RainbowCycle(ctx, delay)
		})
	},
}

var blinkCmd = &cobra.Command{
	Use:   "blink",
	Short: "Flicker a random color, then flash it bright and go dark",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *player.Client) error {
			return c.BlinkRandomThenBright(ctx)
		})
	},
}

var rgbyCmd = &cobra.Command{
	Use:   "rgby",
	Short: "Light the first four pixels red, yellow, green and blue",
	Long: `Light the first four pixels red, yellow, green and blue with dithering
disabled, and hold them for one second.

Useful for checking the --order setting: if the first pixel is not red,
the strand uses a different pixel order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *player.Client) error {
			return c.RGBYColorTest(ctx)
		})
	},
}

var statusLEDCmd = &cobra.Command{
	Use:       "status-led <on|off>",
	Short:     "Turn the Fadecandy status LED on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *player.Client) error {
			return c.SetStatusLED(on)
		})
	},
}

var ditherCmd = &cobra.Command{
	Use:       "dither <on|off>",
	Short:     "Enable or disable Fadecandy dithering and interpolation",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *player.Client) error {
			return c.SetDitheringAndInterpolation(on)
		})
	},
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "enable", "enabled":
		return true, nil
	case "off", "false", "0", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
