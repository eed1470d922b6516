// Opcplay drives LED strands through an Open Pixel Control server.
//
// It connects to an OPC server such as fcserver, streams solid colors and
// animations, toggles Fadecandy firmware options, discovers servers via mDNS
// and can itself act as a receiver that previews incoming frames.
//
// Usage:
//
//	opcplay [command] [flags]
//
// See 'opcplay --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "opcplay",
	Short: "Open Pixel Control player",
	Long: `A client for Open Pixel Control (OPC) servers such as fcserver.

Streams solid colors and animations to LED strands, toggles Fadecandy
firmware options, discovers OPC servers on the local network and previews
OPC traffic in the terminal.

Connection settings come from a saved target (see 'opcplay targets') and can
be overridden per invocation with flags.`,
	Version:       version.Get().Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("opcplay %s\n", version.Get())
	},
}
