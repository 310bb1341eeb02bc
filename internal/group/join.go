// Package group joins member zones to a master zone so they play in sync.
//
// The join uses the two-step convention: resolve the master's unique id,
// then point each member's AVTransport at x-rincon:<id>. A speaker that
// answers the redirect with a UPnP fault is a soft failure (the master is no
// longer known to it); anything else that goes wrong is a hard failure.
package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	apperr "github.com/tessro/sonosync/internal/errors"
	"github.com/tessro/sonosync/internal/zones"
)

// RinconScheme prefixes the master id in a transport-redirect address.
const RinconScheme = "x-rincon:"

// Status is the result of joining one member.
type Status string

const (
	StatusJoined      Status = "joined"
	StatusNotFound    Status = "not_found"
	StatusFailed      Status = "failed"
	StatusUnknownZone Status = "unknown_zone"
)

// Request is a validated join request.
type Request struct {
	Master  string
	Members []string
}

// NewRequest validates zone arguments: the first names the master, the
// rest are members.
func NewRequest(args []string) (Request, error) {
	if len(args) < 2 {
		return Request{}, apperr.Usage("join needs a master zone and at least one member zone")
	}
	master := args[0]
	for _, m := range args[1:] {
		if m == master {
			return Request{}, apperr.Usage("cannot join zone %q to itself", master)
		}
	}
	return Request{
		Master:  master,
		Members: append([]string(nil), args[1:]...),
	}, nil
}

// Outcome reports what happened to one member.
type Outcome struct {
	Member string
	Master string
	Status Status
	Err    error
}

// OK reports whether the member joined.
func (o Outcome) OK() bool {
	return o.Status == StatusJoined
}

// TransportURI returns the redirect address for a master id.
func TransportURI(masterID string) string {
	return RinconScheme + masterID
}

// Orchestrator issues join requests against a zone directory.
type Orchestrator struct {
	concurrency int
	logger      *slog.Logger
}

// NewOrchestrator creates an Orchestrator. A zero concurrency joins every
// member at once.
func NewOrchestrator(concurrency int, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{concurrency: concurrency, logger: logger}
}

// Join joins each member of req to req.Master. It returns one outcome per
// member in request order; per-member failures never stop the others.
func (o *Orchestrator) Join(ctx context.Context, req Request, dir *zones.Directory) []Outcome {
	outcomes := make([]Outcome, len(req.Members))
	for i, m := range req.Members {
		outcomes[i] = Outcome{Member: m, Master: req.Master}
	}

	master, err := dir.Coordinator(req.Master)
	if err != nil {
		o.logger.Warn("master zone not in directory", "zone", req.Master)
		return fail(outcomes, StatusUnknownZone, err)
	}

	masterID, err := master.UUID(ctx)
	if err != nil {
		o.logger.Warn("resolve master id failed", "zone", req.Master, "error", err)
		return fail(outcomes, StatusFailed, fmt.Errorf("%w: resolve %q: %w", apperr.ErrJoinTransport, req.Master, err))
	}
	uri := TransportURI(masterID)
	o.logger.Debug("resolved master", "zone", req.Master, "uri", uri)

	// Outcomes are written by index, the group never returns an error.
	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i := range outcomes {
		g.Go(func() error {
			outcomes[i] = o.joinMember(ctx, outcomes[i], uri, dir)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (o *Orchestrator) joinMember(ctx context.Context, out Outcome, uri string, dir *zones.Directory) Outcome {
	member, err := dir.Coordinator(out.Member)
	if err != nil {
		out.Status = StatusUnknownZone
		out.Err = err
		return out
	}

	err = member.SetTransportURI(ctx, uri, "")
	switch {
	case err == nil:
		out.Status = StatusJoined
		o.logger.Info("joined", "member", out.Member, "master", out.Master)
	case errors.Is(err, apperr.ErrControlRejected):
		out.Status = StatusNotFound
		out.Err = fmt.Errorf("%w: %q: %w", apperr.ErrJoinNotFound, out.Master, err)
		o.logger.Warn("join rejected", "member", out.Member, "master", out.Master, "error", err)
	default:
		out.Status = StatusFailed
		out.Err = fmt.Errorf("%w: %s to %s: %w", apperr.ErrJoinTransport, out.Member, out.Master, err)
		o.logger.Warn("join failed", "member", out.Member, "master", out.Master, "error", err)
	}
	return out
}

func fail(outcomes []Outcome, status Status, err error) []Outcome {
	for i := range outcomes {
		outcomes[i].Status = status
		outcomes[i].Err = err
	}
	return outcomes
}
