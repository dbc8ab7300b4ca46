package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/perf"
	"github.com/project-avie/avie/internal/sizing"
)

func rangeCmd(flags *rootFlags) *cobra.Command {
	var vehicleName string
	var firstOrder bool
	var endOfLife bool
	var output string

	c := &cobra.Command{
		Use:   "range",
		Short: "Estimate range from the electric range equation",
		RunE: func(_ *cobra.Command, _ []string) error {
			if vehicleName == "" {
				return usageErrorf("vehicle is required (use --vehicle or -v)")
			}
			if firstOrder && endOfLife {
				return usageErrorf("--eol applies to the zero-order equation only")
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
			if err := sizing.Apply(&v, domain.SizingFixedBattery); err != nil {
				return err
			}

			if firstOrder {
				res, err := perf.FlightRange(&v)
				if err != nil {
					return err
				}
				return printFlightRange(&v, res, output)
			}

			res := perf.RangeEquation(&v, endOfLife)
			return printRangeBreakdown(&v, res, endOfLife, output)
		},
	}

	c.Flags().StringVarP(&vehicleName, "vehicle", "v", "", "vehicle name or path (required)")
	c.Flags().BoolVar(&firstOrder, "first-order", false, "use the takeoff/climb/cruise flight model")
	c.Flags().BoolVar(&endOfLife, "eol", false, "derate pack capacity to end of life")
	c.Flags().StringVar(&output, "output", outputPretty, "output format: pretty|json")
	return c
}

func printRangeBreakdown(v *domain.Vehicle, b perf.RangeBreakdown, endOfLife bool, output string) error {
	if output == outputJSON {
		return printJSON(os.Stdout, map[string]any{
			"vehicle":     v.Name,
			"end_of_life": endOfLife,
			"breakdown":   b,
		})
	}

	fmt.Printf("Vehicle:          %s\n", v.Name)
	if endOfLife {
		fmt.Println("Pack state:       end of life")
	}
	fmt.Printf("Battery fraction: %.3f\n", b.BatteryMassFraction)
	fmt.Printf("Total energy:     %.1f kWh\n", b.TotalEnergy/3.6e6)
	fmt.Printf("Useable energy:   %.1f kWh\n", b.UseableEnergy/3.6e6)
	fmt.Printf("Reserve energy:   %.1f kWh\n", b.ReserveEnergy/3.6e6)
	fmt.Printf("Cruise energy:    %.1f kWh\n", b.CruiseEnergy/3.6e6)
	fmt.Printf("Cruise range:     %.1f km\n", b.CruiseRange/1000)
	return nil
}

func printFlightRange(v *domain.Vehicle, r perf.FlightResult, output string) error {
	if output == outputJSON {
		return printJSON(os.Stdout, map[string]any{
			"vehicle": v.Name,
			"flight":  r,
		})
	}

	fmt.Printf("Vehicle:        %s\n", v.Name)
	fmt.Printf("Stored energy:  %.1f kWh\n", r.StoredEnergy/3.6e6)
	fmt.Printf("Takeoff speed:  %.1f m/s\n", r.TakeoffSpeed)
	fmt.Printf("Takeoff energy: %.1f kWh\n", r.TakeoffEnergy/3.6e6)
	fmt.Printf("Climb energy:   %.1f kWh\n", r.ClimbEnergy/3.6e6)
	fmt.Printf("Cruise energy:  %.1f kWh\n", r.CruiseEnergy/3.6e6)
	fmt.Printf("Cruise power:   %.1f kW\n", r.CruisePower/1000)
	fmt.Printf("Range:          %.1f km\n", r.Range/1000)
	return nil
}
