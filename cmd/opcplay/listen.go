package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/opcplay/internal/discovery"
	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/player"
	"github.com/muurk/opcplay/internal/preview"
	"github.com/muurk/opcplay/internal/protocol"
	"github.com/muurk/opcplay/internal/receiver"
	"github.com/muurk/opcplay/internal/version"
)

var (
	listenHost      string
	listenPort      int
	listenPlain     bool
	listenAdvertise string
	captureDir      string
)

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().StringVar(&listenHost, "host", "", "Listen address (empty = all interfaces)")
	listenCmd.Flags().IntVar(&listenPort, "listen-port", protocol.DefaultPort, "Listen port")
	listenCmd.Flags().BoolVar(&listenPlain, "plain", false, "Print one line per message instead of the live preview")
	listenCmd.Flags().StringVar(&listenAdvertise, "advertise", "", "Advertise this receiver over mDNS under the given instance name")
	listenCmd.Flags().StringVar(&captureDir, "capture-dir", "", "Directory to write a JSONL capture of every message (disabled if not specified)")
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Act as an OPC server and preview received frames",
	Long: `Act as an OPC server and preview received frames in the terminal.

Pixel data is decoded with --order. When stdout is not a terminal, or with
--plain, each message is printed as one line of hex colors instead.`,
	Example: `  # Preview what another client sends
  opcplay listen

  # Run a client against it from another shell
  opcplay --server 127.0.0.1 rainbow

  # Discoverable with 'opcplay scan'
  opcplay listen --advertise bench-preview

  # Record traffic for later inspection
  opcplay listen --plain --capture-dir ./captures`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func runListen(cmd *cobra.Command, args []string) error {
	order, err := decodeOrder(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	var deliver func(tea.Msg)
	var program *tea.Program

	if listenPlain || !preview.IsTerminal() {
		printer := preview.NewPrinter(os.Stdout)
		deliver = func(msg tea.Msg) {
			switch m := msg.(type) {
			case preview.FrameMsg:
				printer.Frame(m)
			case preview.ConfigMsg:
				printer.Config(m)
			}
		}
	} else {
		addr := net.JoinHostPort(listenHost, strconv.Itoa(listenPort))
		program = tea.NewProgram(preview.NewModel(addr), tea.WithOutput(os.Stdout))
		deliver = program.Send
	}

	handler := receiver.Handler(func(remoteAddr string, msg *protocol.Message) {
		decoded, err := preview.Decode(remoteAddr, msg, order)
		if err != nil {
			logging.Debug("Skipping message", zap.String("remote_addr", remoteAddr), zap.Error(err))
			return
		}
		deliver(decoded)
	})

	if captureDir != "" {
		capture, err := receiver.NewCapture(captureDir)
		if err != nil {
			return err
		}
		defer func() {
			_ = capture.Close()
			fmt.Fprintf(os.Stderr, "Captured %d message(s) to %s\n", capture.Count(), capture.Path())
		}()
		handler = capture.Tee(handler)
	}

	srv, err := receiver.New(&receiver.Config{Host: listenHost, Port: listenPort}, handler)
	if err != nil {
		return err
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	if listenAdvertise != "" {
		port := srv.Addr().(*net.TCPAddr).Port
		ad, err := discovery.Advertise(listenAdvertise, port, map[string]string{
			"app":     "opcplay",
			"version": version.Get().Version,
		})
		if err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer ad.Shutdown()
		}
	}

	if program == nil {
		fmt.Fprintf(os.Stderr, "Listening on %s (order %s). Press Ctrl+C to stop.\n", srv.Addr(), order)
		return srv.Serve(ctx)
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(serveCtx)
	}()
	go func() {
		<-serveCtx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	cancel()
	return <-serveErr
}

// decodeOrder is the pixel order of the selected target, or --order
func decodeOrder(cmd *cobra.Command) (pixel.Order, error) {
	if cmd.Flags().Changed("order") {
		return pixel.ParseOrder(pixelOrder)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		logging.Debug("Using default pixel order", zap.Error(err))
		return player.DefaultOrder, nil
	}
	return cfg.Order, nil
}
