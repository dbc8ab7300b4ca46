package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/usecase"
)

func validateCmd(flags *rootFlags) *cobra.Command {
	var caseName string
	var scenario string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check that a case (or the whole workspace) can run, without simulating",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			if caseName == "" {
				uc := usecase.NewValidateWorkspace(ws.catalog)
				if err := uc.Execute(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("OK")
				return nil
			}

			cs, err := ws.catalog.LoadCase(caseName)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateCase(ws.catalog)
			if err := uc.Execute(cmd.Context(), caseName, effectiveScenario(ws, scenario, cs.Scenario)); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}

	c.Flags().StringVarP(&caseName, "case", "c", "", "case name or path (omit to validate the whole workspace)")
	c.Flags().StringVarP(&scenario, "scenario", "e", "", "scenario name or path (defaults to the case's, then the workspace default)")
	return c
}
