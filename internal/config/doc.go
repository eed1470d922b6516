// Package config manages the opcplay target registry.
//
// The registry is a YAML file holding named OPC servers ("targets") together
// with their session properties, so that commands can be run as
// `opcplay --target porch chase` instead of repeating server, port and pixel
// order flags every time.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/opcplay/config.yaml or $HOME/.config/opcplay/config.yaml
//   - macOS: $HOME/.config/opcplay/config.yaml
//   - Windows: %LOCALAPPDATA%\opcplay\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetTarget("porch", &config.Target{
//	    Server:     "192.168.1.40",
//	    PixelOrder: "GRB",
//	})
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// File operations are protected by a mutex and writes are atomic.
package config
