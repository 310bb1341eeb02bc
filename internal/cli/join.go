package cli

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	apperr "github.com/tessro/sonosync/internal/errors"
	"github.com/tessro/sonosync/internal/group"
)

func newJoinCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "join <master-zone> <member-zone> [<member-zone>...]",
		Short: "Join zones to a master zone",
		Long: `Join one or more member zones to a master zone so they play in sync.

Examples:
  sonosync join "Living Room" Kitchen
  sonosync join "Living Room" Kitchen Office`,
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := group.NewRequest(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runJoin(cmd.Context(), args)
		},
	}
}

type outcomeJSON struct {
	Member string `json:"member"`
	Master string `json:"master"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// runJoin reports per-member failures but only fails the command when the
// directory cannot be built.
func (a *App) runJoin(ctx context.Context, args []string) error {
	req, err := group.NewRequest(args)
	if err != nil {
		return err
	}

	dir, err := a.buildDirectory(ctx)
	if err != nil {
		return err
	}

	outcomes := group.NewOrchestrator(a.cfg.Control.Concurrency, a.logger).Join(ctx, req, dir)

	var summary apperr.PartialResult[[]string]
	for _, o := range outcomes {
		if o.OK() {
			summary.Data = append(summary.Data, o.Member)
			continue
		}
		summary.AddError(o.Err)
	}
	if summary.HasErrors() {
		a.logger.Warn("some zones were not joined", "joined", len(summary.Data), "failed", len(summary.Errors))
		a.logger.Debug(summary.ErrorSummary())
	}

	if a.jsonOut {
		out := make([]outcomeJSON, len(outcomes))
		for i, o := range outcomes {
			out[i] = outcomeJSON{Member: o.Member, Master: o.Master, Status: string(o.Status)}
			if o.Err != nil {
				out[i].Error = o.Err.Error()
			}
		}
		return json.NewEncoder(a.stdout).Encode(out)
	}

	printOutcomes(a.stdout, a.stderr, outcomes)
	return nil
}

// unknownZoneName returns the zone an unknown-zone outcome refers to.
func unknownZoneName(o group.Outcome) string {
	var zerr *apperr.ZoneError
	if errors.As(o.Err, &zerr) {
		return zerr.Zone
	}
	return o.Member
}
