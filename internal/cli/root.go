package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/infra/fsworkspace"
	"github.com/project-avie/avie/internal/infra/logger"
	"github.com/project-avie/avie/internal/infra/workspacefinder"
	"github.com/project-avie/avie/internal/ui/tui"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	workspace string
	debug     bool
}

// Execute runs the CLI and returns the process exit code: 0 on success,
// 1 on failed checks or execution errors, 2 on usage errors.
func Execute(ctx context.Context) int {
	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case isUsageError(err):
		return 2
	default:
		return 1
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "avie",
		Short:        "avie — design studies for battery-electric aircraft",
		SilenceUsage: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q (see `avie --help`)", args[0])
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "workspace root (autodetected when omitted)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable verbose logging to .avie/logs/avie.log")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	cmd.AddCommand(
		initCmd(flags),
		validateCmd(flags),
		runCmd(flags),
		studyCmd(flags),
		vehiclesCmd(flags),
		missionsCmd(flags),
		casesCmd(flags),
		scenariosCmd(flags),
		resultsCmd(flags),
		rangeCmd(flags),
		constraintCmd(flags),
		payloadRangeCmd(flags),
		optimizeCmd(flags),
		versionCmd(),
	)
	return cmd
}

// runTUI is the bare-root path: locate a workspace if one exists, set up
// logging there, and hand over to the interactive app.
func runTUI(flags *rootFlags) error {
	wd := flags.workspace
	if wd == "" {
		var err error
		wd, err = os.Getwd()
		if err != nil {
			wd = "."
		}
	}
	wd, _ = filepath.Abs(wd)

	finder := workspacefinder.NewFinder()

	logRoot := wd
	if root, ferr := finder.FindRoot(wd); ferr == nil && root != "" {
		logRoot = root
	}

	cleanup, _ := logger.Setup(logger.Config{
		Root:  logRoot,
		Debug: flags.debug,
	})
	if cleanup != nil {
		defer func() { _ = cleanup() }()
	}

	deps := tui.Deps{
		StartDir:             wd,
		WorkspaceLocator:     finder,
		WorkspaceInitializer: fsworkspace.NewInitializer(),
		Logger:               logger.L(),
		Debug:                flags.debug,
	}

	return tui.Run(deps)
}

// usageError marks errors that should exit with code 2 instead of 1.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func isUsageError(err error) bool {
	var ue *usageError
	return errors.As(err, &ue)
}
