package config

import (
	"fmt"
	"time"

	"github.com/muurk/opcplay/internal/pixel"
	"github.com/muurk/opcplay/internal/player"
	"github.com/muurk/opcplay/internal/protocol"
	"github.com/muurk/opcplay/internal/transport"
)

// Registry represents the entire user configuration file.
// It stores named OPC targets (controllers) and application preferences.
type Registry struct {
	Version       int                `yaml:"version"`
	DefaultTarget string             `yaml:"default_target,omitempty"`
	Targets       map[string]*Target `yaml:"targets,omitempty"` // Keyed by target name
	Preferences   *Preferences       `yaml:"preferences,omitempty"`
}

// Target describes one OPC server and how to talk to it.
type Target struct {
	Server       string    `yaml:"server"`
	Port         int       `yaml:"port,omitempty"`          // Defaults to 7890
	PixelOrder   string    `yaml:"pixel_order,omitempty"`   // e.g. "GRB"
	Channel      int       `yaml:"channel,omitempty"`       // 0 = broadcast
	StrandLength int       `yaml:"strand_length,omitempty"` // Defaults to 64
	Transport    string    `yaml:"transport,omitempty"`     // "tcp" or "websocket"
	LastSeen     time.Time `yaml:"last_seen,omitempty"`     // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DiscoverTimeout int `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	FrameDelayMs    int `yaml:"frame_delay_ms"`   // Default delay for chase/rainbow
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Targets:     make(map[string]*Target),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: 5,
		FrameDelayMs:    50,
	}
}

// GetTarget retrieves a target by name.
// Returns nil if the target doesn't exist in the registry.
func (r *Registry) GetTarget(name string) *Target {
	return r.Targets[name]
}

// SetTarget adds or replaces a target. The first target saved becomes the
// default.
func (r *Registry) SetTarget(name string, target *Target) {
	if r.Targets == nil {
		r.Targets = make(map[string]*Target)
	}
	r.Targets[name] = target
	if r.DefaultTarget == "" {
		r.DefaultTarget = name
	}
}

// RemoveTarget deletes a target, clearing the default if it pointed at it.
func (r *Registry) RemoveTarget(name string) {
	delete(r.Targets, name)
	if r.DefaultTarget == name {
		r.DefaultTarget = ""
	}
}

// ResolveTarget returns the named target, or the default target when name is
// empty. ok is false if no such target exists.
func (r *Registry) ResolveTarget(name string) (target *Target, ok bool) {
	if name == "" {
		name = r.DefaultTarget
	}
	if name == "" {
		return nil, false
	}
	target, ok = r.Targets[name]
	return target, ok
}

// UpdateTargetLastSeen updates the last seen timestamp for a target.
func (r *Registry) UpdateTargetLastSeen(name string) {
	if target := r.Targets[name]; target != nil {
		target.LastSeen = time.Now()
	}
}

// TargetFromConfig converts a player configuration into a target entry.
func TargetFromConfig(cfg player.Config) *Target {
	return &Target{
		Server:       cfg.Server,
		Port:         cfg.Port,
		PixelOrder:   cfg.Order.String(),
		Channel:      int(cfg.Channel),
		StrandLength: cfg.StrandLength,
		Transport:    string(cfg.Transport),
	}
}

// PlayerConfig converts the target into a validated player configuration.
// Unset fields take the player defaults.
func (t *Target) PlayerConfig() (player.Config, error) {
	cfg := player.DefaultConfig()

	if t.Server != "" {
		cfg.Server = t.Server
	}
	if t.Port != 0 {
		cfg.Port = t.Port
	}
	if t.PixelOrder != "" {
		order, err := pixel.ParseOrder(t.PixelOrder)
		if err != nil {
			return player.Config{}, err
		}
		cfg.Order = order
	}
	if t.Channel < 0 || t.Channel > 255 {
		return player.Config{}, fmt.Errorf("channel %d out of range 0-255", t.Channel)
	}
	cfg.Channel = byte(t.Channel)
	if t.StrandLength != 0 {
		cfg.StrandLength = t.StrandLength
	}
	if t.Transport != "" {
		typ, err := transport.ParseType(t.Transport)
		if err != nil {
			return player.Config{}, err
		}
		cfg.Transport = typ
	}

	if err := cfg.Validate(); err != nil {
		return player.Config{}, err
	}
	return cfg, nil
}

// Address returns host:port for display
func (t *Target) Address() string {
	port := t.Port
	if port == 0 {
		port = protocol.DefaultPort
	}
	return transport.Address(t.Server, port)
}
