package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/muurk/opcplay/internal/config"
	"github.com/muurk/opcplay/internal/transport"
)

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.AddCommand(targetsListCmd)
	targetsCmd.AddCommand(targetsSaveCmd)
	targetsCmd.AddCommand(targetsRemoveCmd)
	targetsCmd.AddCommand(targetsDefaultCmd)
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage saved OPC targets",
}

var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if len(registry.Targets) == 0 {
			fmt.Println("No targets saved. Use 'opcplay targets save <name>' or 'opcplay scan --save'.")
			return nil
		}

		names := make([]string, 0, len(registry.Targets))
		for name := range registry.Targets {
			names = append(names, name)
		}
		slices.Sort(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tADDRESS\tORDER\tCHANNEL\tSTRAND\tTRANSPORT")
		for _, name := range names {
			marker := ""
			if name == registry.DefaultTarget {
				marker = "*"
			}
			cfg, err := registry.Targets[name].PlayerConfig()
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\t%s\tinvalid: %v\t\t\t\n", marker, name, registry.Targets[name].Address(), err)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n", marker, name,
				transport.Address(cfg.Server, cfg.Port), cfg.Order, cfg.Channel, cfg.StrandLength, cfg.Transport)
		}
		return w.Flush()
	},
}

var targetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current connection flags as a target",
	Example: `  opcplay targets save porch --server 192.168.1.40 --order RGB --strand 50
  opcplay targets save tree --server tree.local --transport websocket`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		registry.SetTarget(args[0], config.TargetFromConfig(cfg))
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved target %q (%s)\n", args[0], transport.Address(cfg.Server, cfg.Port))
		return nil
	},
}

var targetsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if registry.GetTarget(args[0]) == nil {
			return fmt.Errorf("unknown target %q", args[0])
		}
		registry.RemoveTarget(args[0])
		return registry.Save()
	},
}

var targetsDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Use a saved target when --target is not given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if registry.GetTarget(args[0]) == nil {
			return fmt.Errorf("unknown target %q", args[0])
		}
		registry.DefaultTarget = args[0]
		return registry.Save()
	},
}
