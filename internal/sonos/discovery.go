package sonos

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/huin/goupnp"
	"github.com/koron/go-ssdp"
	"golang.org/x/sync/errgroup"
)

// ZonePlayerURN is the search target Sonos players answer to.
const ZonePlayerURN = "urn:schemas-upnp-org:device:ZonePlayer:1"

// SearchFunc sends an SSDP M-SEARCH and collects responses for waitSec
// seconds.
type SearchFunc func(searchTarget string, waitSec int) ([]ssdp.Service, error)

func defaultSearch(searchTarget string, waitSec int) ([]ssdp.Service, error) {
	return ssdp.Search(searchTarget, waitSec, "")
}

// Discovery finds Sonos devices via SSDP and loads their UPnP descriptions.
type Discovery struct {
	searchTarget   string
	controlTimeout time.Duration
	search         SearchFunc
	logger         *slog.Logger
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithSearchTarget overrides the SSDP search target.
func WithSearchTarget(st string) Option {
	return func(d *Discovery) {
		if st != "" {
			d.searchTarget = st
		}
	}
}

// WithControlTimeout bounds every description fetch and control call.
func WithControlTimeout(timeout time.Duration) Option {
	return func(d *Discovery) { d.controlTimeout = timeout }
}

// WithSearchFunc replaces the SSDP search, mostly for tests.
func WithSearchFunc(fn SearchFunc) Option {
	return func(d *Discovery) { d.search = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discovery) { d.logger = logger }
}

// NewDiscovery creates a new Discovery instance.
func NewDiscovery(opts ...Option) *Discovery {
	d := &Discovery{
		searchTarget:   ZonePlayerURN,
		controlTimeout: 10 * time.Second,
		search:         defaultSearch,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RouteSSDPLogs sends the SSDP library's internal log output to logger at
// debug level.
func RouteSSDPLogs(logger *slog.Logger) {
	ssdp.Logger = slog.NewLogLogger(logger.Handler(), slog.LevelDebug)
}

// DisableSSDPLogs silences the SSDP library.
func DisableSSDPLogs() {
	ssdp.Logger = nil
}

// Discover searches for devices for the given time budget and returns them
// in the order they answered. Devices whose description cannot be loaded are
// skipped.
func (d *Discovery) Discover(ctx context.Context, timeout time.Duration) ([]*Speaker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	services, err := d.search(d.searchTarget, waitSeconds(timeout))
	if err != nil {
		return nil, fmt.Errorf("ssdp search: %w", err)
	}
	d.logger.Debug("ssdp search finished", "responses", len(services))

	locations := d.uniqueLocations(services)

	found := make([]*Speaker, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	for i, loc := range locations {
		g.Go(func() error {
			root, err := d.fetchDescription(gctx, loc)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				d.logger.Debug("skipping unreadable device", "location", loc.String(), "error", err)
				return nil
			}
			found[i] = NewSpeaker(root, loc, d.controlTimeout)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	speakers := make([]*Speaker, 0, len(found))
	for _, s := range found {
		if s != nil {
			speakers = append(speakers, s)
		}
	}
	return speakers, nil
}

func (d *Discovery) fetchDescription(ctx context.Context, loc *url.URL) (*goupnp.RootDevice, error) {
	ctx, cancel := withTimeout(ctx, d.controlTimeout)
	defer cancel()
	return goupnp.DeviceByURLCtx(ctx, loc)
}

// uniqueLocations drops responses for other device types, duplicates from
// the same device, and unparsable locations.
func (d *Discovery) uniqueLocations(services []ssdp.Service) []*url.URL {
	var locations []*url.URL
	seen := make(map[string]bool)

	for _, svc := range services {
		if d.searchTarget != "ssdp:all" && svc.Type != d.searchTarget {
			continue
		}

		key := extractUUID(svc.USN)
		if key == "" {
			key = svc.Location
		}
		if seen[key] {
			continue
		}

		loc, err := url.Parse(svc.Location)
		if err != nil || loc.Host == "" {
			d.logger.Debug("skipping response with bad location", "usn", svc.USN, "location", svc.Location)
			continue
		}

		seen[key] = true
		locations = append(locations, loc)
	}

	return locations
}

// waitSeconds converts the discovery budget to an SSDP MX value.
func waitSeconds(timeout time.Duration) int {
	secs := int(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// extractUUID extracts the UUID from a USN header.
func extractUUID(usn string) string {
	// Format: uuid:RINCON_xxx::urn:schemas-upnp-org:device:ZonePlayer:1
	if !strings.HasPrefix(usn, "uuid:") {
		return ""
	}
	parts := strings.Split(usn, "::")
	return strings.TrimPrefix(parts[0], "uuid:")
}
