package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/opcplay/internal/config"
	"github.com/muurk/opcplay/internal/discovery"
	"github.com/muurk/opcplay/internal/transport"
)

var (
	scanTimeout time.Duration
	scanSave    bool
	scanQuick   bool
	scanWait    string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "Scan timeout")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Save discovered servers as targets")
	scanCmd.Flags().BoolVar(&scanQuick, "quick", false, "Fast scan with a 3s timeout")
	scanCmd.Flags().StringVar(&scanWait, "wait", "", "Stop at the first server whose name or hostname starts with this")
	scanCmd.MarkFlagsMutuallyExclusive("quick", "timeout")
	scanCmd.MarkFlagsMutuallyExclusive("quick", "wait")
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for OPC servers on the network",
	Long: `Scan for OPC servers advertising the _opc._tcp mDNS service.

Discovered servers can be saved as targets with --save; each is stored
under its instance name. With --wait the scan stops at the first server
whose instance name or hostname starts with the given prefix.`,
	Example: `  opcplay scan
  opcplay scan --quick
  opcplay scan --timeout 10s --save
  opcplay scan --wait fcserver --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load targets: %w", err)
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	if !cmd.Flags().Changed("timeout") && registry.Preferences != nil && registry.Preferences.DiscoverTimeout > 0 {
		scanner.Timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}

	ctx, stop := signalContext()
	defer stop()

	var servers []*discovery.Server
	switch {
	case cmd.Flags().Changed("wait"):
		fmt.Printf("Waiting for OPC server %q (timeout: %s)...\n\n", scanWait, scanner.Timeout)
		server, err := scanner.WaitForServer(ctx, scanWait)
		if err != nil {
			return err
		}
		servers = []*discovery.Server{server}
	case scanQuick:
		fmt.Printf("Scanning for OPC servers (timeout: %s)...\n\n", discovery.QuickScanTimeout)
		servers, err = discovery.QuickScan(ctx)
	default:
		fmt.Printf("Scanning for OPC servers (timeout: %s)...\n\n", scanner.Timeout)
		servers, err = scanner.ScanForServers(ctx)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the OPC server advertises _opc._tcp over mDNS")
		fmt.Println("  - Check that multicast (UDP 5353) is allowed on this network")
		fmt.Println("  - Try increasing --timeout")
		fmt.Println("  - Use --server to connect directly if discovery fails")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(servers))

	for i, server := range servers {
		fmt.Printf("%d. %s\n", i+1, server.Instance)
		fmt.Printf("   Host:    %s\n", server.Hostname)
		fmt.Printf("   Address: %s\n", server.Address())
		if len(server.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", server.Metadata)
		}
		fmt.Println()
	}

	if scanSave {
		saveServers(registry, servers)
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Println("Saved as targets. Use 'opcplay targets list' to review them.")
		return nil
	}

	fmt.Println("Use 'opcplay --server <ip> rgby' to check a strand's pixel order")
	fmt.Println("Use 'opcplay scan --save' to store these as targets")
	return nil
}

// saveServers stores each server as a TCP target named after its instance.
// Existing targets keep their strand settings.
func saveServers(registry *config.Registry, servers []*discovery.Server) {
	for _, server := range servers {
		target := registry.GetTarget(server.Instance)
		if target == nil {
			target = &config.Target{Transport: string(transport.TypeTCP)}
		}
		target.Server = server.IP
		target.Port = server.Port
		target.LastSeen = server.DiscoveredAt
		registry.SetTarget(server.Instance, target)
	}
}
