package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/project-avie/avie/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// renderVehiclePreview lists every tunable parameter plus the derived
// figures a designer reads first.
func renderVehiclePreview(v domain.Vehicle) string {
	var b strings.Builder

	b.WriteString(v.Name + "\n")
	if v.Description != "" {
		b.WriteString(v.Description + "\n")
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, path := range domain.ParamPaths() {
		val, err := domain.GetParam(&v, path)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", path, fmtFloat(val))
	}
	_ = tw.Flush()

	fmt.Fprintf(&b, "\ntotal mass    %.1f kg\n", v.TotalMass())
	fmt.Fprintf(&b, "pack energy   %.1f kWh\n", v.PackEnergy()/3.6e6)
	fmt.Fprintf(&b, "aspect ratio  %.2f\n", v.AspectRatio())
	return b.String()
}

// renderRunDetail is the results screen body: header, summary metrics,
// check table and the per-segment energy table.
func renderRunDetail(art domain.RunArtifact, id string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  (%s / %s)\n", art.Case, art.Vehicle, art.Mission)
	if art.Scenario != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", art.Scenario)
	}
	fmt.Fprintf(&b, "Status:   %s\n", art.Status)
	if art.Error != "" {
		fmt.Fprintf(&b, "Error:    %s\n", art.Error)
	}
	if id != "" {
		fmt.Fprintf(&b, "Run ID:   %s\n", id)
	}
	b.WriteString("\n")

	if len(art.Summary) > 0 {
		keys := make([]string, 0, len(art.Summary))
		for k := range art.Summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(tw, "%s\t%s\n", k, fmtFloat(art.Summary[k]))
		}
		_ = tw.Flush()
		b.WriteString("\n")
	}

	if len(art.Checks) > 0 {
		b.WriteString("Checks:\n")
		for _, c := range art.Checks {
			mark := "✓"
			if !c.Passed {
				mark = "✗"
			}
			fmt.Fprintf(&b, "  %s %s  %s\n", mark, c.Name, c.Message)
		}
		b.WriteString("\n")
	}

	if len(art.Segments) > 0 {
		b.WriteString("Segments:\n")
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
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

	return b.String()
}

// renderStudyDetail flattens a study artifact to its point grid.
func renderStudyDetail(art domain.StudyArtifact, id string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  (case %s)\n", art.Study, art.Case)
	fmt.Fprintf(&b, "Status:   %s\n", art.Status)
	if art.Error != "" {
		fmt.Fprintf(&b, "Error:    %s\n", art.Error)
	}
	if id != "" {
		fmt.Fprintf(&b, "Run ID:   %s\n", id)
	}
	b.WriteString("\n")

	if len(art.Points) == 0 {
		b.WriteString("(no points evaluated)\n")
		return b.String()
	}

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "  #")
	for _, ax := range art.Axes {
		fmt.Fprintf(tw, "\t%s", ax.Param)
	}
	for _, mName := range art.Metrics {
		fmt.Fprintf(tw, "\t%s", mName)
	}
	fmt.Fprint(tw, "\tstatus\n")

	for _, pt := range art.Points {
		fmt.Fprintf(tw, "  %d", pt.Index)
		for _, ax := range art.Axes {
			fmt.Fprintf(tw, "\t%s", fmtFloat(pt.Params[ax.Param]))
		}
		for _, mName := range art.Metrics {
			if v, ok := pt.Summary[mName]; ok {
				fmt.Fprintf(tw, "\t%s", fmtFloat(v))
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		fmt.Fprintf(tw, "\t%s\n", pt.Status)
	}
	_ = tw.Flush()

	return b.String()
}
