package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/opcplay/internal/config"
	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/player"
	"github.com/muurk/opcplay/internal/protocol"
	"github.com/muurk/opcplay/internal/transport"
)

// Connection flags shared by every command
var (
	serverAddr    string
	serverPort    int
	pixelOrder    string
	channel       int
	strandLength  int
	transportType string
	targetName    string
	logLevel      string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&serverAddr, "server", player.DefaultServer, "OPC server host")
	flags.IntVar(&serverPort, "port", protocol.DefaultPort, "OPC server port")
	flags.StringVar(&pixelOrder, "order", player.DefaultOrder.String(), "Pixel color order (RGB, RBG, GRB, GBR, BRG, BGR)")
	flags.IntVar(&channel, "channel", protocol.BroadcastChannel, "OPC channel (0 = broadcast)")
	flags.IntVar(&strandLength, "strand", protocol.MaxStrandPixels, "Pixels per strand")
	flags.StringVar(&transportType, "transport", string(transport.TypeTCP), "Transport (tcp, websocket)")
	flags.StringVar(&targetName, "target", "", "Saved target name (defaults to the registry default)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
}

// resolveConfig builds the session configuration: defaults, then the saved
// target, then any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (player.Config, error) {
	cfg := player.DefaultConfig()

	registry, err := config.LoadRegistry()
	if err != nil {
		if targetName != "" {
			return cfg, fmt.Errorf("failed to load targets: %w", err)
		}
		logging.Warn("Ignoring unreadable target registry", zap.Error(err))
	} else if target, ok := registry.ResolveTarget(targetName); ok {
		cfg, err = target.PlayerConfig()
		if err != nil {
			return cfg, fmt.Errorf("target %q: %w", targetName, err)
		}
	} else if targetName != "" {
		return cfg, fmt.Errorf("unknown target %q (see 'opcplay targets list')", targetName)
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = serverAddr
	}
	if flags.Changed("port") {
		cfg.Port = serverPort
	}
	if flags.Changed("order") {
		order, err := pixel.ParseOrder(pixelOrder)
		if err != nil {
			return cfg, err
		}
		cfg.Order = order
	}
	if flags.Changed("channel") {
		if channel < 0 || channel > 255 {
			return cfg, fmt.Errorf("channel %d out of range 0-255", channel)
		}
		cfg.Channel = byte(channel)
	}
	if flags.Changed("strand") {
		cfg.StrandLength = strandLength
	}
	if flags.Changed("transport") {
		typ, err := transport.ParseType(transportType)
		if err != nil {
			return cfg, err
		}
		cfg.Transport = typ
	}

	return cfg, cfg.Validate()
}

// touchTarget records a successful connection on the saved target in use
func touchTarget() {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	name := targetName
	if name == "" {
		name = registry.DefaultTarget
	}
	if registry.GetTarget(name) == nil {
		return
	}
	registry.UpdateTargetLastSeen(name)
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to update target", zap.String("target", name), zap.Error(err))
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withClient connects a client for the duration of fn
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *player.Client) error) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	client, err := player.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if err := client.Connect(ctx); err != nil {
		if transport.IsRetryable(err) {
			return fmt.Errorf("%w (is the OPC server running? try 'opcplay scan')", err)
		}
		return err
	}
	defer client.Disconnect()
	touchTarget()

	return fn(ctx, client)
}

// runUntilInterrupted plays a free-running animation until Ctrl+C
func runUntilInterrupted(cmd *cobra.Command, name string, fn func(ctx context.Context, c *player.Client) error) error {
	return withClient(cmd, func(ctx context.Context, c *player.Client) error {
		cfg := c.Config()
		fmt.Printf("Playing %s on %s (%d pixels, %s). Press Ctrl+C to stop.\n",
			name, transport.Address(cfg.Server, cfg.Port), cfg.StrandLength, cfg.Order)

		loop := player.Start(ctx, func(ctx context.Context) error {
			return fn(ctx, c)
		})

		select {
		case <-ctx.Done():
		case <-loop.Done():
		}
		return loop.Stop()
	})
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
