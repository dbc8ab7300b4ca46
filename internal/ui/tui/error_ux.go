package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/project-avie/avie/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into a short phrase for the toast line.
// Execution errors keep their own wording, which is already written for
// people ("battery depleted 312 s into segment ...").
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			// Store ops first: "runstore.load_study" names a missing run
			// id, not a missing study definition.
			switch {
			case strings.Contains(oe.Op, "store."), strings.Contains(oe.Op, "runindex"):
				return "Run not found"
			case strings.Contains(oe.Op, "workspacefinder"):
				return "Workspace not found"
			case strings.Contains(oe.Op, "vehicle"):
				return "Vehicle not found"
			case strings.Contains(oe.Op, "mission"):
				return "Mission not found"
			case strings.Contains(oe.Op, "scenario"):
				return "Scenario not found"
			case strings.Contains(oe.Op, "case"):
				return "Case not found"
			case strings.Contains(oe.Op, "study"):
				return "Study not found"
			}
			return "Not found"

		case domain.KindMissingParam:
			p := extractParamName(err.Error())
			if p == "" {
				return "Unknown parameter"
			}
			return "Unknown parameter " + p

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			line := extractLine(err.Error())
			if line != "" {
				return "Invalid YAML at " + base + " line " + line
			}

			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config: " + clampString(oe.Err.Error(), 80)

		case domain.KindExecution:
			return clampString(oe.Err.Error(), 100)

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

// extractParamName pulls the dotted path out of "unknown parameter path: X"
// messages.
func extractParamName(s string) string {
	ls := strings.ToLower(s)

	i := strings.LastIndex(ls, "parameter path:")
	if i < 0 {
		return ""
	}
	part := strings.TrimSpace(s[i+len("parameter path:"):])
	if part == "" {
		return ""
	}
	fields := strings.Fields(part)
	return strings.Trim(fields[0], " .,:;\"'")
}
