package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatal(err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	if err := Initialize(""); err != nil {
		t.Fatal(err)
	}
	defer SetLogger(nil)

	l := GetLogger()
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestInitialize_Levels(t *testing.T) {
	tests := []struct {
		level       string
		enabled     zapcore.Level
		notEnabled  zapcore.Level
		checkHidden bool
	}{
		{level: "debug", enabled: zapcore.DebugLevel},
		{level: "info", enabled: zapcore.InfoLevel, notEnabled: zapcore.DebugLevel, checkHidden: true},
		{level: "error", enabled: zapcore.ErrorLevel, notEnabled: zapcore.WarnLevel, checkHidden: true},
		// unrecognised but explicitly set falls back to info
		{level: "loud", enabled: zapcore.InfoLevel, notEnabled: zapcore.DebugLevel, checkHidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Setenv(LogLevelEnvVar, "")
			if err := Initialize(tt.level); err != nil {
				t.Fatal(err)
			}
			defer SetLogger(nil)

			core := GetLogger().Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("%v should be enabled at %q", tt.enabled, tt.level)
			}
			if tt.checkHidden && core.Enabled(tt.notEnabled) {
				t.Errorf("%v should be disabled at %q", tt.notEnabled, tt.level)
			}
		})
	}
}

func TestLogMessage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogMessage("sent", "127.0.0.1:7890", []byte{0x01, 0x00, 0x00, 0x03, 0x0a, 0x14, 0x1e})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["command"] != "set-pixel-colors" {
		t.Errorf("command = %v", ctx["command"])
	}
	if ctx["hex_dump"] != "010000030a141e" {
		t.Errorf("hex_dump = %v", ctx["hex_dump"])
	}
}

func TestLogMessage_SkippedAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogMessage("sent", "addr", []byte{0x00, 0xFF})
	if logs.Len() != 0 {
		t.Errorf("got %d entries, want none at info level", logs.Len())
	}
}

func TestHexDump_Truncates(t *testing.T) {
	got := hexDump(make([]byte, maxDumpBytes+10))
	if !strings.HasSuffix(got, "...") {
		t.Error("long dumps should be truncated")
	}
	if len(got) != 2*maxDumpBytes+3 {
		t.Errorf("dump length = %d", len(got))
	}
}

func TestLogRawBytes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogRawBytes("Partial OPC message", []byte{0x00, 0xFF, 'O', 'K'})

	entries := logs.FilterMessage("Partial OPC message").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["length"] != int64(4) {
		t.Errorf("length = %v", ctx["length"])
	}
	if ctx["hex"] != "00ff4f4b" {
		t.Errorf("hex = %v", ctx["hex"])
	}
	if ctx["ascii"] != "..OK" {
		t.Errorf("ascii = %v", ctx["ascii"])
	}
}
