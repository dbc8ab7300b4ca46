package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func casesCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "cases",
		Short: "Browse test cases",
	}

	c.AddCommand(casesListCmd(flags))
	return c
}

func casesListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cases",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			refs, err := ws.catalog.ListCases()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no cases found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Printf("- %s  (%s)  %s / %s\n", r.Name, rel, r.Vehicle, r.Mission)
			}
			return nil
		},
	}
}
