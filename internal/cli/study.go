package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/usecase"
)

func studyCmd(flags *rootFlags) *cobra.Command {
	var studyName string
	var scenario string
	var noSave bool
	var output string

	c := &cobra.Command{
		Use:   "study",
		Short: "Sweep a study grid over its base case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if studyName == "" {
				return usageErrorf("study is required (use --study or -s)")
			}
			if err := checkOutput(output); err != nil {
				return err
			}

			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			st, err := ws.catalog.LoadStudy(studyName)
			if err != nil {
				return err
			}
			cs, err := ws.catalog.LoadCase(st.Case)
			if err != nil {
				return err
			}
			scen := effectiveScenario(ws, scenario, cs.Scenario)

			var opts []usecase.StudyOption
			if noSave {
				opts = append(opts, usecase.WithoutStudySave())
			}
			uc := usecase.NewRunStudy(ws.catalog, ws.sim, ws.store, opts...)

			art, id, err := uc.Execute(cmd.Context(), studyName, scen)
			if perr := printStudyArtifact(os.Stdout, art, id, output); perr != nil {
				return perr
			}
			if err != nil {
				return err
			}
			if art.Status != domain.RunPassed {
				return fmt.Errorf("study failed (%d of %d points not passed)",
					countNotPassed(art.Points), len(art.Points))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&studyName, "study", "s", "", "study name or path (required)")
	c.Flags().StringVarP(&scenario, "scenario", "e", "", "scenario name or path (defaults to the case's, then the workspace default)")
	c.Flags().BoolVar(&noSave, "no-save", false, "do not save the study artifact under runs/")
	c.Flags().StringVar(&output, "output", outputPretty, "output format: pretty|json")
	return c
}

func countNotPassed(points []domain.StudyPoint) int {
	n := 0
	for _, p := range points {
		if p.Status != domain.RunPassed {
			n++
		}
	}
	return n
}
