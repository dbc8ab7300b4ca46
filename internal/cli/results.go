package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/project-avie/avie/internal/domain"
)

func resultsCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "results",
		Short: "Browse saved runs",
	}

	c.AddCommand(
		resultsListCmd(flags),
		resultsShowCmd(flags),
		resultsSeriesCmd(flags),
		resultsDeleteCmd(flags),
		resultsReindexCmd(flags),
	)
	return c
}

func resultsListCmd(flags *rootFlags) *cobra.Command {
	var kind string
	var name string
	var status string
	var limit int

	c := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			switch kind {
			case "", string(domain.RunCase), string(domain.RunStudy):
			default:
				return usageErrorf("unsupported kind %q (expected case|study)", kind)
			}

			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			rows, err := ws.store.List(domain.RunFilter{
				Kind:   domain.RunKind(kind),
				Name:   name,
				Status: domain.RunStatus(status),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Println("(no runs found)")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tNAME\tSCENARIO\tSTATUS\tSTARTED\tDURATION")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Kind, r.Name, r.Scenario, r.Status,
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					(time.Duration(r.DurationMS) * time.Millisecond).String(),
				)
			}
			return tw.Flush()
		},
	}

	c.Flags().StringVar(&kind, "kind", "", "filter by kind: case|study")
	c.Flags().StringVar(&name, "name", "", "filter by case or study name")
	c.Flags().StringVar(&status, "status", "", "filter by status: passed|failed|error")
	c.Flags().IntVar(&limit, "limit", 20, "maximum rows (0 = no cap)")
	return c
}

func resultsShowCmd(flags *rootFlags) *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}

			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			// The id alone doesn't say which artifact shape it names;
			// a kind mismatch from the case loader routes to the study one.
			art, err := ws.store.LoadRun(args[0])
			if err != nil {
				if !domain.IsKind(err, domain.KindInvalidConfig) {
					return err
				}
				st, stErr := ws.store.LoadStudy(args[0])
				if stErr != nil {
					return stErr
				}
				return printStudyArtifact(os.Stdout, st, st.ID, output)
			}
			return printRunArtifact(os.Stdout, art, art.ID, output)
		},
	}

	c.Flags().StringVar(&output, "output", outputPretty, "output format: pretty|json")
	return c
}

func resultsSeriesCmd(flags *rootFlags) *cobra.Command {
	var studyName string
	var metric string

	c := &cobra.Command{
		Use:   "series",
		Short: "Flatten the newest run of a study to one metric per grid point",
		RunE: func(_ *cobra.Command, _ []string) error {
			if studyName == "" {
				return usageErrorf("study is required (use --study or -s)")
			}

			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			points, err := ws.store.Series(studyName, metric)
			if err != nil {
				return err
			}

			params := seriesParamNames(points)

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprint(tw, "#")
			for _, p := range params {
				fmt.Fprintf(tw, "\t%s", p)
			}
			fmt.Fprintf(tw, "\t%s\n", metric)
			for _, pt := range points {
				fmt.Fprintf(tw, "%d", pt.Index)
				for _, p := range params {
					fmt.Fprintf(tw, "\t%s", formatValue(pt.Params[p]))
				}
				fmt.Fprintf(tw, "\t%s\n", formatValue(pt.Value))
			}
			return tw.Flush()
		},
	}

	c.Flags().StringVarP(&studyName, "study", "s", "", "study name (required)")
	c.Flags().StringVarP(&metric, "metric", "m", domain.DefaultStudyMetric, "metric to extract")
	return c
}

func resultsDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run and its index rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func resultsReindexCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the run index from the artifact files on disk",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			n, err := ws.store.Reindex()
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d run(s)\n", n)
			return nil
		},
	}
}

// seriesParamNames collects the axis names present in a series, sorted so
// two-axis sweeps print deterministically.
func seriesParamNames(points []domain.SeriesPoint) []string {
	set := map[string]bool{}
	for _, pt := range points {
		for k := range pt.Params {
			set[k] = true
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
