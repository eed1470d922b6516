package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/opcplay/internal/logging"
	"go.uber.org/zap"
)

// Advertisement is a registered mDNS service
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise announces an OPC server on port under the given instance name so
// that scanners can find it. Metadata is published as TXT records.
func Advertise(instance string, port int, metadata map[string]string) (*Advertisement, error) {
	txt := make([]string, 0, len(metadata))
	for k, v := range metadata {
		txt = append(txt, k+"="+v)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising OPC service",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port))

	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	a.server.Shutdown()
}
