// Package zones builds the zone directory: every music-capable speaker found
// on the network, keyed by the zone name it reports.
package zones

import (
	"context"
	"sort"
	"time"

	apperr "github.com/tessro/sonosync/internal/errors"
)

// MusicServiceID is advertised by devices that play audio. Bridges, boosts
// and other non-speaker Sonos hardware lack it.
const MusicServiceID = "urn:upnp-org:serviceId:MusicServices"

// Speaker is a handle to one discovered device.
type Speaker interface {
	// UUID returns the stable unique identifier (RINCON_...).
	UUID(ctx context.Context) (string, error)
	// Name returns the zone name the speaker belongs to.
	Name(ctx context.Context) (string, error)
	// Host returns the speaker's network address.
	Host() string
	// HasService reports whether the device advertises serviceID.
	HasService(serviceID string) bool
	// SetTransportURI points the speaker's audio transport at uri.
	SetTransportURI(ctx context.Context, uri, metadata string) error
}

// Discoverer enumerates the devices that answer within timeout, in the
// order they answered.
type Discoverer interface {
	Discover(ctx context.Context, timeout time.Duration) ([]Speaker, error)
}

// Directory maps zone names to the speakers that share them.
type Directory struct {
	zones map[string][]Speaker
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{zones: make(map[string][]Speaker)}
}

// Add appends s under name, keeping insertion order within the zone.
func (d *Directory) Add(name string, s Speaker) {
	d.zones[name] = append(d.zones[name], s)
}

// Names returns zone names in sorted order.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.zones))
	for name := range d.zones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Speakers returns the speakers of a zone in discovery order.
func (d *Directory) Speakers(name string) ([]Speaker, bool) {
	s, ok := d.zones[name]
	return s, ok
}

// Len returns the number of zones.
func (d *Directory) Len() int {
	return len(d.zones)
}

// Coordinator returns the speaker that represents a zone for grouping.
// In a bonded or stereo-paired zone that is the first-discovered unit.
func (d *Directory) Coordinator(name string) (Speaker, error) {
	speakers, ok := d.zones[name]
	if !ok || len(speakers) == 0 {
		return nil, apperr.UnknownZone(name)
	}
	return speakers[0], nil
}
