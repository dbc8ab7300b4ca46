package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func scenariosCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "scenarios",
		Short: "Browse scenarios (named parameter sets)",
	}

	c.AddCommand(scenariosListCmd(flags))
	return c
}

func scenariosListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenarios",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			refs, err := ws.catalog.ListScenarios()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no scenarios found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n", ws.root)
			if ws.cfg.Defaults.Scenario != "" {
				fmt.Printf("Default:   %s\n", ws.cfg.Defaults.Scenario)
			}
			fmt.Println()

			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				if r.Description != "" {
					fmt.Printf("- %s  (%s)  %s\n", r.Name, rel, r.Description)
				} else {
					fmt.Printf("- %s  (%s)\n", r.Name, rel)
				}
			}
			return nil
		},
	}
}
