package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/opt"
	"github.com/project-avie/avie/internal/usecase"
)

func optimizeCmd(flags *rootFlags) *cobra.Command {
	var caseName string
	var scenario string
	var maxRange bool
	var initial float64
	var lo float64
	var hi float64
	var floor float64
	var output string

	c := &cobra.Command{
		Use:   "optimize",
		Short: "Size the battery for minimum mission energy",
		Long: `Size the battery pack of a case's vehicle for minimum mission energy while
keeping the final state of charge above a floor, or, with --max-range,
stretch the variable cruise of the case's mission as far as the floor
allows.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if caseName == "" {
				return usageErrorf("case is required (use --case or -c)")
			}
			if maxRange && (initial != 0 || lo != 0 || hi != 0) {
				return usageErrorf("--initial/--lo/--hi apply to the battery search only")
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
			uc := usecase.NewOptimize(ws.catalog, ws.sim)

			if maxRange {
				res, err := uc.MaxRange(cmd.Context(), caseName, scen, floor)
				if err != nil {
					return err
				}
				return printMaxRange(os.Stdout, caseName, scen, res, output)
			}

			res, err := uc.Battery(cmd.Context(), caseName, scen, opt.BatteryOptions{
				Initial: initial,
				Lo:      lo,
				Hi:      hi,
				Floor:   floor,
			})
			if err != nil {
				return err
			}
			return printBatteryResult(os.Stdout, caseName, scen, res, output)
		},
	}

	c.Flags().StringVarP(&caseName, "case", "c", "", "case name or path (required)")
	c.Flags().StringVarP(&scenario, "scenario", "e", "", "scenario name or path (defaults to the case's, then the workspace default)")
	c.Flags().BoolVar(&maxRange, "max-range", false, "stretch the variable cruise instead of sizing the battery")
	c.Flags().Float64Var(&initial, "initial", 0, "starting battery mass [kg]")
	c.Flags().Float64Var(&lo, "lo", 0, "battery mass lower bound [kg]")
	c.Flags().Float64Var(&hi, "hi", 0, "battery mass upper bound [kg]")
	c.Flags().Float64Var(&floor, "floor", 0, "minimum final state of charge")
	c.Flags().StringVar(&output, "output", outputPretty, "output format: pretty|json")
	return c
}

func printBatteryResult(w io.Writer, caseName, scenario string, res opt.BatteryResult, output string) error {
	if output == outputJSON {
		return printJSON(w, map[string]any{
			"case":     caseName,
			"scenario": scenario,
			"battery":  res,
		})
	}

	fmt.Fprintf(w, "Case:              %s\n", caseName)
	if scenario != "" {
		fmt.Fprintf(w, "Scenario:          %s\n", scenario)
	}
	fmt.Fprintf(w, "Battery mass:      %.1f kg\n", res.BatteryMass)
	fmt.Fprintf(w, "Takeoff mass:      %.1f kg\n", res.TakeoffMass)
	fmt.Fprintf(w, "Energy usage:      %.1f kWh\n", res.EnergyUsageKWh)
	fmt.Fprintf(w, "Battery remaining: %.3f\n", res.BatteryRemaining)
	fmt.Fprintf(w, "Mission range:     %.1f km\n", res.RangeKm)
	fmt.Fprintf(w, "Iterations:        %d\n", res.Iterations)
	if !res.Converged {
		fmt.Fprintln(w, "Warning: search stopped before converging")
	}
	return nil
}

func printMaxRange(w io.Writer, caseName, scenario string, res opt.CruiseResult, output string) error {
	if output == outputJSON {
		return printJSON(w, map[string]any{
			"case":      caseName,
			"scenario":  scenario,
			"max_range": res,
		})
	}

	fmt.Fprintf(w, "Case:               %s\n", caseName)
	if scenario != "" {
		fmt.Fprintf(w, "Scenario:           %s\n", scenario)
	}
	fmt.Fprintf(w, "Cruise distance:    %.1f km\n", res.CruiseKm)
	fmt.Fprintf(w, "Mission range:      %.1f km\n", res.RangeKm)
	fmt.Fprintf(w, "Range w/ reserve:   %.1f km\n", res.RangeWithReserveKm)
	fmt.Fprintf(w, "Battery remaining:  %.3f\n", res.BatteryRemaining)
	fmt.Fprintf(w, "Mission time:       %.0f min\n", res.TimeMin)
	return nil
}
