package receiver

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/protocol"
	"go.uber.org/zap"
)

// Record is one captured OPC message. Captures are JSON Lines files, one
// record per line.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	MessageNum int       `json:"message_num"`
	RemoteAddr string    `json:"remote_addr"`
	Channel    byte      `json:"channel"`
	Command    byte      `json:"command"`
	Type       string    `json:"type"`
	Length     int       `json:"length"`
	PayloadHex string    `json:"payload_hex"`
}

// Message rebuilds the captured message
func (r *Record) Message() (*protocol.Message, error) {
	data, err := hex.DecodeString(r.PayloadHex)
	if err != nil {
		return nil, fmt.Errorf("hex decode error: %w", err)
	}
	if len(data) != r.Length {
		return nil, fmt.Errorf("length mismatch: record says %d, payload has %d", r.Length, len(data))
	}
	return &protocol.Message{Channel: r.Channel, Command: r.Command, Data: data}, nil
}

// Capture appends received messages to a JSONL file
type Capture struct {
	mu    sync.Mutex
	file  *os.File
	count int
}

// NewCapture creates capture-<timestamp>.jsonl in dir
func NewCapture(dir string) (*Capture, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access capture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("capture path is not a directory: %s", dir)
	}

	filename := filepath.Join(dir, fmt.Sprintf("capture-%s.jsonl", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}

	logging.Info("Capturing messages", zap.String("filename", filename))
	return &Capture{file: f}, nil
}

// Path returns the capture file name
func (c *Capture) Path() string {
	return c.file.Name()
}

// Record appends one message. Failures are logged, not returned, so a full
// disk never stops the receiver.
func (c *Capture) Record(remoteAddr string, msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count++
	record := Record{
		Timestamp:  time.Now(),
		MessageNum: c.count,
		RemoteAddr: remoteAddr,
		Channel:    msg.Channel,
		Command:    msg.Command,
		Type:       msg.CommandString(),
		Length:     len(msg.Data),
		PayloadHex: hex.EncodeToString(msg.Data),
	}

	data, err := json.Marshal(record)
	if err != nil {
		logging.Error("Failed to marshal capture record", zap.Error(err))
		return
	}
	if _, err := c.file.Write(append(data, '\n')); err != nil {
		logging.Error("Failed to write capture record",
			zap.String("filename", c.file.Name()),
			zap.Error(err),
		)
	}
}

// Count returns the number of recorded messages
func (c *Capture) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Close closes the capture file
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Close()
}

// Tee returns a handler that records each message before passing it on
func (c *Capture) Tee(next Handler) Handler {
	return func(remoteAddr string, msg *protocol.Message) {
		c.Record(remoteAddr, msg)
		next(remoteAddr, msg)
	}
}

// ReadCapture decodes every record of a capture stream. Blank lines are
// skipped; the first malformed line is an error.
func ReadCapture(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	// A maximal message is 64 KiB of payload, hex encoded
	scanner.Buffer(make([]byte, 0, 64*1024), 2*protocol.MaxPayloadSize+1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}
