package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tessro/sonosync/internal/zones"
)

func newListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List zones and their speakers",
		Long: `Discovers speakers on the network and prints every zone with the unique
ids and addresses of its speakers.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}
}

type speakerInfo struct {
	UID     string `json:"uid"`
	Address string `json:"address"`
	Model   string `json:"model,omitempty"`
}

type zoneInfo struct {
	Zone     string        `json:"zone"`
	Speakers []speakerInfo `json:"speakers"`
}

func (a *App) runList(ctx context.Context) error {
	dir, err := a.buildDirectory(ctx)
	if err != nil {
		return err
	}

	infos, err := describeZones(ctx, dir)
	if err != nil {
		return err
	}

	if a.jsonOut {
		return json.NewEncoder(a.stdout).Encode(infos)
	}

	if len(infos) == 0 {
		a.logger.Info("no speakers found")
		return nil
	}

	fmt.Fprintln(a.stdout, renderZoneTable(infos, terminalWidth(a.stdout)))
	return nil
}

// describeZones resolves the unique id of every speaker. Lookups run
// concurrently; the first failure aborts the listing.
func describeZones(ctx context.Context, dir *zones.Directory) ([]zoneInfo, error) {
	names := dir.Names()
	infos := make([]zoneInfo, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		speakers, _ := dir.Speakers(name)
		infos[i] = zoneInfo{Zone: name, Speakers: make([]speakerInfo, len(speakers))}

		for j, s := range speakers {
			info := &infos[i].Speakers[j]
			info.Address = s.Host()
			if m, ok := s.(interface{ Model() string }); ok {
				info.Model = m.Model()
			}
			g.Go(func() error {
				uid, err := s.UUID(gctx)
				if err != nil {
					return fmt.Errorf("zone %q: unique id of %s: %w", name, s.Host(), err)
				}
				info.UID = uid
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}
