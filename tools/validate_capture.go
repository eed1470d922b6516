//go:build ignore

// validate_capture checks JSONL captures written by `opcplay listen
// --capture-dir` and reports what they contain.
//
//	go run tools/validate_capture.go ./captures
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/muurk/opcplay/internal/protocol"
	"github.com/muurk/opcplay/internal/receiver"
)

// Statistics accumulates results across files
type Statistics struct {
	TotalFiles     int
	TotalMessages  int
	Valid          int
	Invalid        int
	Commands       map[string]int
	Channels       map[byte]int
	PixelCounts    map[int]int
	FirmwareConfig map[byte]int
	Failures       []Failure
}

// Failure describes one record that did not validate
type Failure struct {
	File       string
	MessageNum int
	Error      string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate_capture <directory-or-file>")
		fmt.Println("Example: validate_capture ./captures")
		fmt.Println("         validate_capture capture-20260314-092653.jsonl")
		os.Exit(1)
	}

	path := os.Args[1]
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Error accessing path: %v\n", err)
		os.Exit(1)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.jsonl"))
		if err != nil || len(files) == 0 {
			fmt.Printf("No JSONL files found in %s\n", path)
			os.Exit(1)
		}
	}

	stats := Statistics{
		Commands:       make(map[string]int),
		Channels:       make(map[byte]int),
		PixelCounts:    make(map[int]int),
		FirmwareConfig: make(map[byte]int),
	}

	fmt.Printf("=== OPC Capture Validator ===\n")
	fmt.Printf("Files to process: %d\n\n", len(files))

	for _, file := range files {
		processFile(file, &stats)
	}

	printStatistics(&stats)
	if stats.Invalid > 0 {
		os.Exit(1)
	}
}

func processFile(filename string, stats *Statistics) {
	stats.TotalFiles++

	f, err := os.Open(filename)
	if err != nil {
		fmt.Printf("Error reading file %s: %v\n", filename, err)
		return
	}
	defer f.Close()

	records, err := receiver.ReadCapture(f)
	if err != nil {
		fmt.Printf("Error parsing %s: %v\n", filename, err)
	}

	for _, rec := range records {
		stats.TotalMessages++

		msg, err := rec.Message()
		if err == nil {
			err = validate(msg, stats)
		}
		if err != nil {
			stats.Invalid++
			stats.Failures = append(stats.Failures, Failure{File: filename, MessageNum: rec.MessageNum, Error: err.Error()})
			continue
		}

		stats.Valid++
		stats.Commands[msg.CommandString()]++
		stats.Channels[msg.Channel]++
	}
}

// validate re-encodes the message and checks it against the decoder
func validate(msg *protocol.Message, stats *Statistics) error {
	raw, err := msg.Bytes()
	if err != nil {
		return err
	}
	if _, err := protocol.ParseMessage(raw); err != nil {
		return err
	}

	switch msg.Command {
	case protocol.CmdSetPixelColors:
		if len(msg.Data)%3 != 0 {
			return fmt.Errorf("payload of %d bytes is not a whole number of pixels", len(msg.Data))
		}
		stats.PixelCounts[len(msg.Data)/3]++
	case protocol.CmdSystemExclusive:
		config, err := msg.FirmwareConfig()
		if err != nil {
			return err
		}
		stats.FirmwareConfig[config]++
	default:
		return fmt.Errorf("unknown command 0x%02x", msg.Command)
	}
	return nil
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Files Processed:  %d\n", stats.TotalFiles)
	fmt.Printf("Total Messages:   %d\n", stats.TotalMessages)
	if stats.TotalMessages == 0 {
		return
	}
	fmt.Printf("Valid:            %d (%.2f%%)\n", stats.Valid, float64(stats.Valid)/float64(stats.TotalMessages)*100)
	fmt.Printf("Invalid:          %d (%.2f%%)\n", stats.Invalid, float64(stats.Invalid)/float64(stats.TotalMessages)*100)

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("COMMANDS\n")
	fmt.Printf("----------------------------------------\n")
	for name, count := range stats.Commands {
		fmt.Printf("%-18s %d\n", name, count)
	}

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("CHANNELS\n")
	fmt.Printf("----------------------------------------\n")
	channels := make([]byte, 0, len(stats.Channels))
	for ch := range stats.Channels {
		channels = append(channels, ch)
	}
	slices.Sort(channels)
	for _, ch := range channels {
		fmt.Printf("channel %-3d %d messages\n", ch, stats.Channels[ch])
	}

	if len(stats.PixelCounts) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("PIXELS PER FRAME\n")
		fmt.Printf("----------------------------------------\n")
		for n, count := range stats.PixelCounts {
			fmt.Printf("%5d pixels: %d frames\n", n, count)
		}
	}

	if len(stats.FirmwareConfig) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("FIRMWARE CONFIG\n")
		fmt.Printf("----------------------------------------\n")
		for config, count := range stats.FirmwareConfig {
			fmt.Printf("0x%02x: %d\n", config, count)
		}
	}

	if len(stats.Failures) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("FAILURES (%d total)\n", len(stats.Failures))
		fmt.Printf("----------------------------------------\n")
		for i, failed := range stats.Failures {
			if i >= 10 {
				fmt.Printf("(Showing first 10 of %d failures)\n", len(stats.Failures))
				break
			}
			fmt.Printf("  %s msg #%d: %s\n", failed.File, failed.MessageNum, failed.Error)
		}
	}
}
