package sonos

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huin/goupnp"
	"github.com/huin/goupnp/dcps/av1"
)

// Speaker is a discovered Sonos device backed by its UPnP description.
type Speaker struct {
	root     *goupnp.RootDevice
	location *url.URL
	timeout  time.Duration
}

// NewSpeaker wraps a loaded device description. timeout bounds each control
// call; zero means no per-call limit.
func NewSpeaker(root *goupnp.RootDevice, location *url.URL, timeout time.Duration) *Speaker {
	return &Speaker{root: root, location: location, timeout: timeout}
}

// UUID returns the device's RINCON identifier, taken from its UDN.
func (s *Speaker) UUID(ctx context.Context) (string, error) {
	id := strings.TrimPrefix(s.root.Device.UDN, "uuid:")
	if id == "" {
		return "", fmt.Errorf("device at %s has no UDN", s.Host())
	}
	return id, nil
}

// Name returns the zone (room) name the speaker reports.
func (s *Speaker) Name(ctx context.Context) (string, error) {
	var resp struct {
		CurrentZoneName      string
		CurrentIcon          string
		CurrentConfiguration string
	}
	if err := s.callAction(ctx, DevicePropertiesService, "GetZoneAttributes", &struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.CurrentZoneName, nil
}

// Host returns the host part of the description location.
func (s *Speaker) Host() string {
	if s.location == nil {
		return ""
	}
	return s.location.Hostname()
}

// Model returns the model name from the device description.
func (s *Speaker) Model() string {
	return s.root.Device.ModelName
}

// ServiceIDs lists the service ids of the whole device tree.
func (s *Speaker) ServiceIDs() []string {
	var ids []string
	s.root.Device.VisitServices(func(srv *goupnp.Service) {
		ids = append(ids, srv.ServiceId)
	})
	return ids
}

// HasService reports whether any device in the tree advertises serviceID.
func (s *Speaker) HasService(serviceID string) bool {
	for _, id := range s.ServiceIDs() {
		if id == serviceID {
			return true
		}
	}
	return false
}

// SetTransportURI sets the AVTransport source of the speaker. A speaker that
// answers with a UPnP fault yields an error wrapping ErrControlRejected.
func (s *Speaker) SetTransportURI(ctx context.Context, uri, metadata string) error {
	clients, err := av1.NewAVTransport1ClientsFromRootDevice(s.root, s.location)
	if err != nil {
		return fmt.Errorf("SetAVTransportURI: %w", err)
	}
	if len(clients) == 0 {
		return fmt.Errorf("SetAVTransportURI: no AVTransport on %s", s.Host())
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err = clients[0].SetAVTransportURICtx(ctx, 0, uri, metadata)
	return classifyControlError("SetAVTransportURI", err)
}
