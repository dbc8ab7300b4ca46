package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/domain"
)

func vehiclesCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "vehicles",
		Short: "Browse vehicle configurations",
	}

	c.AddCommand(vehiclesListCmd(flags), vehiclesShowCmd(flags))
	return c
}

func vehiclesListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			refs, err := ws.catalog.ListVehicles()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no vehicles found)")
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

func vehiclesShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a vehicle's parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			v, err := ws.catalog.LoadVehicle(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Vehicle: %s\n", v.Name)
			if v.Description != "" {
				fmt.Printf("%s\n", v.Description)
			}
			fmt.Println()

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, path := range domain.ParamPaths() {
				val, err := domain.GetParam(&v, path)
				if err != nil {
					continue
				}
				fmt.Fprintf(tw, "  %s\t%s\n", path, formatValue(val))
			}
			_ = tw.Flush()

			fmt.Println()
			fmt.Printf("  total mass:   %.1f kg\n", v.TotalMass())
			fmt.Printf("  pack energy:  %.1f kWh\n", v.PackEnergy()/3.6e6)
			fmt.Printf("  aspect ratio: %.2f\n", v.AspectRatio())
			return nil
		},
	}
}
