package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/usecase"
)

func payloadRangeCmd(flags *rootFlags) *cobra.Command {
	var caseName string
	var scenario string
	var points int
	var output string

	c := &cobra.Command{
		Use:   "payload-range",
		Short: "Build the payload-range diagram for a case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if caseName == "" {
				return usageErrorf("case is required (use --case or -c)")
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

			uc := usecase.NewPayloadRange(ws.catalog, ws.sim)
			diagram, err := uc.Execute(cmd.Context(), caseName, scen, points)
			if err != nil {
				return err
			}

			if output == outputJSON {
				return printJSON(os.Stdout, map[string]any{
					"case":     caseName,
					"scenario": scen,
					"points":   diagram,
				})
			}

			fmt.Printf("Case: %s\n\n", caseName)
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "cargo [kg]\tMTOW [kg]\trange [km]\twith reserve [km]\tusage [kWh]")
			for _, p := range diagram {
				fmt.Fprintf(tw, "%.0f\t%.0f\t%.1f\t%.1f\t%.1f\n",
					p.Cargo, p.MTOW, p.Range, p.RangeWithReserve, p.EnergyUsage)
			}
			return tw.Flush()
		},
	}

	c.Flags().StringVarP(&caseName, "case", "c", "", "case name or path (required)")
	c.Flags().StringVarP(&scenario, "scenario", "e", "", "scenario name or path (defaults to the case's, then the workspace default)")
	c.Flags().IntVar(&points, "points", mission.DefaultPayloadPoints, "cargo sweep resolution")
	c.Flags().StringVar(&output, "output", outputPretty, "output format: pretty|json")
	return c
}
