package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func missionsCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "missions",
		Short: "Browse mission profiles",
	}

	c.AddCommand(missionsListCmd(flags))
	return c
}

func missionsListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List missions",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			refs, err := ws.catalog.ListMissions()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no missions found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
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
