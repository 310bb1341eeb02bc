package sonos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huin/goupnp"
	"github.com/huin/goupnp/soap"

	apperr "github.com/tessro/sonosync/internal/errors"
)

const (
	// UPnP service types
	AVTransportService      = "urn:schemas-upnp-org:service:AVTransport:1"
	DevicePropertiesService = "urn:schemas-upnp-org:service:DeviceProperties:1"
)

// callAction performs a SOAP action against the first service of
// serviceType found in the speaker's device tree.
func (s *Speaker) callAction(ctx context.Context, serviceType, action string, in, out any) error {
	clients, err := goupnp.NewServiceClientsFromRootDevice(s.root, s.location, serviceType)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if len(clients) == 0 {
		return fmt.Errorf("%s: service %s not found on %s", action, serviceType, s.Host())
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err = clients[0].SOAPClient.PerformActionCtx(ctx, serviceType, action, in, out)
	return classifyControlError(action, err)
}

// classifyControlError separates a speaker's negative acknowledgement (a
// SOAP fault) from failures to reach it at all.
func classifyControlError(action string, err error) error {
	if err == nil {
		return nil
	}
	var fault *soap.SOAPFaultError
	if errors.As(err, &fault) {
		return fmt.Errorf("%w: %s: %w", apperr.ErrControlRejected, action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
