package zones

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperr "github.com/tessro/sonosync/internal/errors"
)

const defaultTimeout = 5 * time.Second

// Builder runs discovery and assembles a Directory.
type Builder struct {
	discoverer  Discoverer
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
}

// NewBuilder creates a Builder. A zero timeout means five seconds; a zero
// concurrency leaves name queries unbounded.
func NewBuilder(discoverer Discoverer, timeout time.Duration, concurrency int, logger *slog.Logger) *Builder {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		discoverer:  discoverer,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Build discovers speakers and groups them by zone name. Any discovery or
// name query failure aborts the build.
func (b *Builder) Build(ctx context.Context) (*Directory, error) {
	b.logger.Debug("discovering speakers", "timeout", b.timeout)
	devices, err := b.discoverer.Discover(ctx, b.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrDiscoveryTransport, err)
	}

	var speakers []Speaker
	for _, dev := range devices {
		if !dev.HasService(MusicServiceID) {
			b.logger.Debug("skipping non-speaker device", "host", dev.Host())
			continue
		}
		speakers = append(speakers, dev)
	}

	names := make([]string, len(speakers))
	g, gctx := errgroup.WithContext(ctx)
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}
	for i, s := range speakers {
		g.Go(func() error {
			name, err := s.Name(gctx)
			if err != nil {
				return fmt.Errorf("%w: zone name of %s: %w", apperr.ErrDiscoveryTransport, s.Host(), err)
			}
			names[i] = name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dir := NewDirectory()
	for i, s := range speakers {
		dir.Add(names[i], s)
	}

	b.logger.Info("discovery finished", "devices", len(devices), "speakers", len(speakers), "zones", dir.Len())
	return dir, nil
}
