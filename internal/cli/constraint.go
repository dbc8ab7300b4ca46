package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/perf"
)

func constraintCmd(flags *rootFlags) *cobra.Command {
	var vehicleName string
	var points int
	var output string

	c := &cobra.Command{
		Use:   "constraint",
		Short: "Evaluate the thrust-to-weight constraint diagram",
		RunE: func(_ *cobra.Command, _ []string) error {
			if vehicleName == "" {
				return usageErrorf("vehicle is required (use --vehicle or -v)")
			}
			if points < 2 {
				return usageErrorf("points must be at least 2")
			}
			if err := checkOutput(output); err != nil {
				return err
			}

			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			v, err := ws.catalog.LoadVehicle(vehicleName)
			if err != nil {
				return err
			}

			res := perf.ConstraintDiagram(&v, perf.WithPoints(points))
			if output == outputJSON {
				return printJSON(os.Stdout, map[string]any{
					"vehicle":    v.Name,
					"constraint": res,
				})
			}

			fmt.Printf("Vehicle: %s\n\n", v.Name)
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "W/S [kg/m2]\tcruise\tmax cruise\tstall\tclimb")
			for _, p := range res.Points {
				fmt.Fprintf(tw, "%.1f\t%.4f\t%.4f\t%.4f\t%.4f\n",
					p.WingLoading, p.Cruise, p.MaxCruise, p.Stall, p.Climb)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nlanding wing-loading bound: %.1f kg/m2\n", res.LandingWingLoading)
			fmt.Printf("design wing loading:        %.1f kg/m2\n", res.DesignWingLoading)
			return nil
		},
	}

	c.Flags().StringVarP(&vehicleName, "vehicle", "v", "", "vehicle name or path (required)")
	c.Flags().IntVar(&points, "points", 40, "wing-loading sample count")
	c.Flags().StringVar(&output, "output", outputPretty, "output format: pretty|json")
	return c
}
