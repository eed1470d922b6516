package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Server represents an OPC server discovered on the network
type Server struct {
	// Instance is the advertised service instance name (e.g., "fcserver")
	Instance string

	// Hostname is the mDNS hostname (e.g., "pixelpi.local.")
	Hostname string

	// IP is the resolved address, IPv4 preferred
	IP string

	// Port is the OPC port (typically 7890)
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("OPC server %s (%s) at %s", s.Instance, s.Hostname, s.Address())
}

// Address returns host:port suitable for dialing
func (s *Server) Address() string {
	return net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
