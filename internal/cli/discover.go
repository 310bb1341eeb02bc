package cli

import (
	"context"
	"time"

	"github.com/tessro/sonosync/internal/sonos"
	"github.com/tessro/sonosync/internal/zones"
)

// sonosDiscoverer adapts sonos.Discovery to zones.Discoverer.
type sonosDiscoverer struct {
	discovery *sonos.Discovery
}

func (s sonosDiscoverer) Discover(ctx context.Context, timeout time.Duration) ([]zones.Speaker, error) {
	found, err := s.discovery.Discover(ctx, timeout)
	if err != nil {
		return nil, err
	}
	speakers := make([]zones.Speaker, len(found))
	for i, sp := range found {
		speakers[i] = sp
	}
	return speakers, nil
}

func (a *App) newDiscoverer() zones.Discoverer {
	if a.discoverer != nil {
		return a.discoverer
	}
	return sonosDiscoverer{discovery: sonos.NewDiscovery(
		sonos.WithSearchTarget(a.cfg.Discovery.SearchTarget),
		sonos.WithControlTimeout(a.cfg.ControlTimeout()),
		sonos.WithLogger(a.logger),
	)}
}

// buildDirectory runs discovery once for the current command.
func (a *App) buildDirectory(ctx context.Context) (*zones.Directory, error) {
	builder := zones.NewBuilder(a.newDiscoverer(), a.cfg.DiscoveryTimeout(), a.cfg.Control.Concurrency, a.logger)
	return builder.Build(ctx)
}
