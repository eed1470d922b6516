package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/opcplay/internal/logging"
	"github.com/muurk/opcplay/internal/protocol"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type advertised by OPC servers
	ServiceType = "_opc._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 5 * time.Second

	// QuickScanTimeout is the timeout used by QuickScan
	QuickScanTimeout = 3 * time.Second
)

// newScanner builds the scanner used by the package-level helpers
var newScanner = NewScanner

// browseFunc matches zeroconf.Resolver.Browse
type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration

	// Service is the service type to browse for
	Service string

	browse browseFunc
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		Service: ServiceType,
	}
}

func (s *Scanner) browser() (browseFunc, error) {
	if s.browse != nil {
		return s.browse, nil
	}
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	return resolver.Browse, nil
}

// ScanForServers collects every OPC server that answers before the timeout
// or ctx expires. Duplicate announcements are folded by address.
func (s *Scanner) ScanForServers(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	browse, err := s.browser()
	if err != nil {
		return nil, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu      sync.Mutex
		servers []*Server
		seen    = make(map[string]bool)
	)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				server := parseServiceEntry(entry)
				if server == nil {
					continue
				}
				mu.Lock()
				if !seen[server.Address()] {
					seen[server.Address()] = true
					servers = append(servers, server)
					logging.Debug("Discovered OPC server",
						zap.String("instance", server.Instance),
						zap.String("address", server.Address()))
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := browse(ctx, s.Service, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	mu.Lock()
	defer mu.Unlock()
	return servers, nil
}

// WaitForServer returns the first server whose instance name or hostname
// starts with name. An empty name matches any server.
func (s *Scanner) WaitForServer(ctx context.Context, name string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	browse, err := s.browser()
	if err != nil {
		return nil, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Server, 1)

	go func() {
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				server := parseServiceEntry(entry)
				if server != nil && matches(server, name) {
					found <- server
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := browse(ctx, s.Service, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case server := <-found:
		return server, nil
	case <-ctx.Done():
		select {
		case server := <-found:
			return server, nil
		default:
		}
		if name == "" {
			return nil, fmt.Errorf("no OPC server found within %s", s.Timeout)
		}
		return nil, fmt.Errorf("OPC server %q not found within %s", name, s.Timeout)
	}
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan(ctx context.Context) ([]*Server, error) {
	scanner := newScanner()
	scanner.Timeout = QuickScanTimeout
	return scanner.ScanForServers(ctx)
}

// FindServer waits for a server by name with the default timeout
func FindServer(ctx context.Context, name string) (*Server, error) {
	return newScanner().WaitForServer(ctx, name)
}

func matches(server *Server, name string) bool {
	if name == "" {
		return true
	}
	name = strings.ToLower(name)
	return strings.HasPrefix(strings.ToLower(server.Instance), name) ||
		strings.HasPrefix(strings.ToLower(server.Hostname), name)
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = protocol.DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Server{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
