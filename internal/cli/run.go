package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/infra/watcher"
	"github.com/project-avie/avie/internal/usecase"
)

func runCmd(flags *rootFlags) *cobra.Command {
	var caseName string
	var scenario string
	var noSave bool
	var output string
	var watch bool

	c := &cobra.Command{
		Use:   "run",
		Short: "Run a case: size the vehicle, fly the mission, evaluate checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if caseName == "" {
				return usageErrorf("case is required (use --case or -c)")
			}
			if err := checkOutput(output); err != nil {
				return err
			}

			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			cs, err := ws.catalog.LoadCase(caseName)
			if err != nil {
				return err
			}
			scen := effectiveScenario(ws, scenario, cs.Scenario)

			var opts []usecase.RunOption
			if noSave {
				opts = append(opts, usecase.WithoutSave())
			}
			uc := usecase.NewRunCase(ws.catalog, ws.sim, ws.store, opts...)

			if watch {
				return watchCase(cmd.Context(), ws, uc, caseName, scen, output)
			}
			return runCaseOnce(cmd.Context(), uc, caseName, scen, output)
		},
	}

	c.Flags().StringVarP(&caseName, "case", "c", "", "case name or path (required)")
	c.Flags().StringVarP(&scenario, "scenario", "e", "", "scenario name or path (defaults to the case's, then the workspace default)")
	c.Flags().BoolVar(&noSave, "no-save", false, "do not save the run artifact under runs/")
	c.Flags().StringVar(&output, "output", outputPretty, "output format: pretty|json")
	c.Flags().BoolVar(&watch, "watch", false, "re-run on catalog changes until interrupted")
	return c
}

func runCaseOnce(ctx context.Context, uc *usecase.RunCase, caseName, scenario, output string) error {
	art, id, err := uc.Execute(ctx, caseName, scenario)
	if perr := printRunArtifact(os.Stdout, art, id, output); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}
	if art.Status != domain.RunPassed {
		_, fail := countChecks(art.Checks)
		return fmt.Errorf("run failed (%d failed check(s))", fail)
	}
	return nil
}

// watchCase re-validates and re-runs the case whenever catalog files settle.
// Failures print and the watch continues; only interruption ends it.
func watchCase(ctx context.Context, ws *workspaceCtx, uc *usecase.RunCase, caseName, scenario, output string) error {
	w, err := watcher.New(ws.root, ws.cfg.Paths)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Start(ctx); err != nil {
		return err
	}

	validate := usecase.NewValidateCase(ws.catalog)

	if err := runCaseOnce(ctx, uc, caseName, scenario, output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	fmt.Printf("\nwatching %s (ctrl-c to stop)\n", ws.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths, ok := <-w.Events():
			if !ok {
				return nil
			}
			fmt.Printf("\n%s  %d file(s) changed\n", time.Now().Format("15:04:05"), len(paths))
			if err := validate.Execute(ctx, caseName, scenario); err != nil {
				fmt.Fprintf(os.Stderr, "validate: %v\n", err)
				continue
			}
			if err := runCaseOnce(ctx, uc, caseName, scenario, output); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		}
	}
}
