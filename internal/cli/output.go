package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/project-avie/avie/internal/domain"
)

const (
	outputPretty = "pretty"
	outputJSON   = "json"
)

// checkOutput rejects unknown --output values before any work happens, so
// a typo cannot waste a simulation.
func checkOutput(format string) error {
	switch format {
	case "", outputPretty, outputJSON:
		return nil
	default:
		return usageErrorf("unsupported output %q (expected pretty|json)", format)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// summaryOrder is the display order of the canonical run metrics. Metrics
// outside the list print after it, sorted by name.
var summaryOrder = []string{
	"takeoff_mass_kg",
	"mtow_kg",
	"empty_mass_kg",
	"battery_mass_kg",
	"cargo_mass_kg",
	"payload_mass_kg",
	"total_energy_kwh",
	"energy_usage_kwh",
	"reserve_energy_kwh",
	"battery_remaining",
	"mission_time_min",
	"mission_range_km",
	"range_with_reserve_km",
	"cruise_distance_km",
}

func orderedMetricNames(m domain.Metrics) []string {
	out := make([]string, 0, len(m))
	seen := map[string]bool{}
	for _, k := range summaryOrder {
		if _, ok := m[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func formatValue(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

func printSummary(w io.Writer, summary domain.Metrics) {
	if len(summary) == 0 {
		return
	}
	fmt.Fprintln(w, "summary:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, k := range orderedMetricNames(summary) {
		fmt.Fprintf(tw, "  %s\t%s\n", k, formatValue(summary[k]))
	}
	_ = tw.Flush()
}

func printRunArtifact(w io.Writer, art domain.RunArtifact, runID string, format string) error {
	switch format {
	case outputJSON:
		return printJSON(w, map[string]any{
			"run_id": runID,
			"run":    art,
		})
	case outputPretty, "":
		printPrettyRun(w, art, runID)
		return nil
	default:
		return usageErrorf("unsupported output %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, art domain.RunArtifact, runID string) {
	fmt.Fprintf(w, "Case:     %s\n", art.Case)
	fmt.Fprintf(w, "Vehicle:  %s\n", art.Vehicle)
	fmt.Fprintf(w, "Mission:  %s\n", art.Mission)
	if art.Scenario != "" {
		fmt.Fprintf(w, "Scenario: %s\n", art.Scenario)
	}
	fmt.Fprintf(w, "Status:   %s\n", art.Status)
	if art.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", art.Error)
	}
	fmt.Fprintf(w, "Duration: %s\n", runDuration(art.StartedAt, art.FinishedAt))
	if runID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", runID)
	}
	fmt.Fprintln(w)

	printSummary(w, art.Summary)

	if len(art.Checks) > 0 {
		pass, fail := countChecks(art.Checks)
		fmt.Fprintf(w, "checks: %d pass / %d fail\n", pass, fail)
		for _, c := range art.Checks {
			fmt.Fprintf(w, "  %s %s  %s\n", passMark(c.Passed), c.Name, c.Message)
		}
	}

	if len(art.Extracts) > 0 {
		for _, e := range art.Extracts {
			if !e.Success {
				fmt.Fprintf(w, "  %s extract %s  %s\n", passMark(false), e.Name, e.Message)
			}
		}
	}
	if len(art.Extracted) > 0 {
		fmt.Fprintln(w, "extracted:")
		keys := make([]string, 0, len(art.Extracted))
		for k := range art.Extracted {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s = %s\n", k, art.Extracted[k])
		}
	}

	if len(art.Segments) > 0 {
		fmt.Fprintln(w, "segments:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  name\tkind\ttime\tdistance\tenergy\tsoc\n")
		for _, s := range art.Segments {
			last := len(s.Time) - 1
			if last < 0 {
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\t%.0f s\t%.1f km\t%.1f kWh\t%.3f\n",
				s.Name, s.Kind,
				s.Time[last]-s.Time[0],
				(s.Distance[last]-s.Distance[0])/1000,
				s.Energy/3.6e6,
				s.StateOfCharge[last],
			)
		}
		_ = tw.Flush()
	}
}

func printStudyArtifact(w io.Writer, art domain.StudyArtifact, runID string, format string) error {
	switch format {
	case outputJSON:
		return printJSON(w, map[string]any{
			"run_id": runID,
			"study":  art,
		})
	case outputPretty, "":
		printPrettyStudy(w, art, runID)
		return nil
	default:
		return usageErrorf("unsupported output %q (expected pretty|json)", format)
	}
}

func printPrettyStudy(w io.Writer, art domain.StudyArtifact, runID string) {
	fmt.Fprintf(w, "Study:    %s\n", art.Study)
	fmt.Fprintf(w, "Case:     %s\n", art.Case)
	fmt.Fprintf(w, "Vehicle:  %s\n", art.Vehicle)
	if art.Scenario != "" {
		fmt.Fprintf(w, "Scenario: %s\n", art.Scenario)
	}
	fmt.Fprintf(w, "Status:   %s\n", art.Status)
	if art.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", art.Error)
	}
	fmt.Fprintf(w, "Duration: %s\n", runDuration(art.StartedAt, art.FinishedAt))
	if runID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", runID)
	}
	fmt.Fprintln(w)

	if len(art.Points) == 0 {
		fmt.Fprintln(w, "(no points evaluated)")
		return
	}

	axisNames := make([]string, 0, len(art.Axes))
	for _, ax := range art.Axes {
		axisNames = append(axisNames, ax.Param)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "  #")
	for _, n := range axisNames {
		fmt.Fprintf(tw, "\t%s", n)
	}
	for _, m := range art.Metrics {
		fmt.Fprintf(tw, "\t%s", m)
	}
	fmt.Fprint(tw, "\tstatus\n")

	for _, pt := range art.Points {
		fmt.Fprintf(tw, "  %d", pt.Index)
		for _, n := range axisNames {
			fmt.Fprintf(tw, "\t%s", formatValue(pt.Params[n]))
		}
		for _, m := range art.Metrics {
			if v, ok := pt.Summary[m]; ok {
				fmt.Fprintf(tw, "\t%s", formatValue(v))
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		status := string(pt.Status)
		if pt.Error != "" {
			status += " (" + pt.Error + ")"
		}
		fmt.Fprintf(tw, "\t%s\n", status)
	}
	_ = tw.Flush()
}

func countChecks(checks []domain.CheckResult) (pass, fail int) {
	for _, c := range checks {
		if c.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

func passMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func runDuration(start, end time.Time) time.Duration {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	return end.Sub(start).Round(time.Millisecond)
}
