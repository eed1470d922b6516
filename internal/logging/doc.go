// Package logging provides structured logging for opcplay.
//
// This package wraps a global zap logger. Logging is silent unless a level is
// passed to Initialize or OPCPLAY_LOG_LEVEL is set, so library callers and CLI
// output are not polluted by default.
//
// # Log Levels
//
//   - Debug: every OPC message with a hex dump
//   - Info: connections, animation start/stop
//   - Warn: writes skipped because no sink is connected, write failures
//     inside free-running loops
//   - Error: listener and startup failures
//
// # Structured Logging
//
//	logging.Info("Animation started",
//	    zap.String("animation", "rainbow"),
//	    zap.Duration("frame_delay", delay),
//	)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Output goes to stderr in console format so stdout stays free for command
// output and the terminal preview.
package logging
