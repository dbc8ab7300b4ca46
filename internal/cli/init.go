package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/infra/fsworkspace"
	"github.com/project-avie/avie/internal/usecase"
)

func initCmd(_ *rootFlags) *cobra.Command {
	var name string
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold an avie workspace with a starter catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, name, force); err != nil {
				return err
			}

			fmt.Printf("Initialized avie workspace at %s\n", root)
			fmt.Println("Try: avie run -c baseline")
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "workspace display name (defaults to the directory name)")
	c.Flags().BoolVar(&force, "force", false, "overwrite an existing workspace")
	return c
}
