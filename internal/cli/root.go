package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tessro/sonosync/internal/config"
	apperr "github.com/tessro/sonosync/internal/errors"
	"github.com/tessro/sonosync/internal/logging"
	"github.com/tessro/sonosync/internal/sonos"
	"github.com/tessro/sonosync/internal/zones"
)

// App holds the state of one command invocation.
type App struct {
	stdout io.Writer
	stderr io.Writer

	// discoverer replaces network discovery when set.
	discoverer zones.Discoverer

	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &App{stdout: stdout, stderr: stderr}
	return app.execute(ctx, args)
}

func (a *App) execute(ctx context.Context, args []string) int {
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if a.closeLog != nil {
		_ = a.closeLog()
	}
	if err == nil {
		return 0
	}

	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(a.stderr, apperr.Format(err))
	}
	if apperr.IsUsage(err) && cmd != nil {
		fmt.Fprintln(a.stderr)
		fmt.Fprint(a.stderr, cmd.UsageString())
	}
	return apperr.ExitCode(err)
}

func newRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sonosync",
		Short: "Group Sonos speakers for synchronized playback",
		Long: `Sonosync discovers Sonos speakers on the local network and joins zones
together so they play in sync.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return apperr.Usage("missing subcommand")
			}
			return apperr.Usage("unknown subcommand %q", args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return apperr.Usage("missing subcommand")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.Usage("%v", err)
	})

	cmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ~/.sonosyncrc)")
	cmd.PersistentFlags().BoolVarP(&a.jsonOut, "json", "j", false, "output as JSON")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newJoinCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd(a))
	return cmd
}

// init loads config and sets up logging. It runs after argument validation,
// so malformed invocations never reach it.
func (a *App) init() error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadFrom(a.cfgFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("%w: failed to load config: %w", apperr.ErrInvalidConfig, err)
	}

	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}

	a.logger, a.closeLog, err = logging.NewFromConfig(a.cfg, a.verbose, a.stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}

	if a.verbose {
		sonos.RouteSSDPLogs(a.logger)
	} else {
		sonos.DisableSSDPLogs()
	}
	return nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return apperr.Usage("%s takes no arguments", cmd.Name())
	}
	return nil
}
