package check

import (
	"fmt"
	"math"
	"strconv"

	"github.com/PaesslerAG/jsonpath"

	"github.com/project-avie/avie/internal/domain"
)

// DefaultTolerance is the relative tolerance for eq checks when the spec
// leaves it zero.
const DefaultTolerance = 1e-9

// Evaluate applies the case checks against the run summary and the
// marshalled artifact document. Metric checks read the summary directly;
// path checks query the document with JSONPath. One result per spec, in
// spec order.
func Evaluate(checks []domain.CheckSpec, summary domain.Metrics, doc any) []domain.CheckResult {
	out := make([]domain.CheckResult, 0, len(checks))
	for i := range checks {
		out = append(out, evaluateOne(&checks[i], summary, doc))
	}
	return out
}

func evaluateOne(cs *domain.CheckSpec, summary domain.Metrics, doc any) domain.CheckResult {
	if cs.Op == domain.CheckExists {
		return checkExists(cs, doc)
	}

	got, subject, err := resolve(cs, summary, doc)
	if err != nil {
		return domain.CheckResult{Name: cs.Name, Passed: false, Message: err.Error()}
	}
	return compare(cs, subject, got)
}

// resolve produces the observed value plus the subject used in messages.
func resolve(cs *domain.CheckSpec, summary domain.Metrics, doc any) (float64, string, error) {
	if cs.Metric != "" {
		v, ok := summary[cs.Metric]
		if !ok {
			return 0, "", fmt.Errorf("unknown metric %q", cs.Metric)
		}
		return v, cs.Metric, nil
	}

	subject := fmt.Sprintf("jsonpath %q", cs.Path)
	val, err := jsonpath.Get(cs.Path, doc)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %v", subject, err)
	}
	f, err := toFloat64(val)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %v", subject, err)
	}
	return f, subject, nil
}

func compare(cs *domain.CheckSpec, subject string, got float64) domain.CheckResult {
	want := cs.Value

	var passed bool
	var rel string
	switch cs.Op {
	case domain.CheckGT:
		passed, rel = got > want, ">"
	case domain.CheckGE:
		passed, rel = got >= want, ">="
	case domain.CheckLT:
		passed, rel = got < want, "<"
	case domain.CheckLE:
		passed, rel = got <= want, "<="
	case domain.CheckEQ:
		passed, rel = withinTolerance(got, want, cs.Tolerance), "=="
	default:
		return domain.CheckResult{
			Name:    cs.Name,
			Passed:  false,
			Message: fmt.Sprintf("unknown op %q", cs.Op),
		}
	}

	if passed {
		return domain.CheckResult{
			Name:    cs.Name,
			Passed:  true,
			Message: fmt.Sprintf("%s: %s %s %s", subject, formatValue(got), rel, formatValue(want)),
		}
	}
	return domain.CheckResult{
		Name:    cs.Name,
		Passed:  false,
		Message: fmt.Sprintf("%s: expected %s %s, got %s", subject, rel, formatValue(want), formatValue(got)),
	}
}

func checkExists(cs *domain.CheckSpec, doc any) domain.CheckResult {
	subject := fmt.Sprintf("jsonpath %q", cs.Path)

	val, err := jsonpath.Get(cs.Path, doc)
	if err != nil {
		return domain.CheckResult{
			Name:    cs.Name,
			Passed:  false,
			Message: fmt.Sprintf("%s: %v", subject, err),
		}
	}
	if isEmptyValue(val) {
		return domain.CheckResult{
			Name:    cs.Name,
			Passed:  false,
			Message: fmt.Sprintf("%s: expected value to exist, got empty", subject),
		}
	}
	return domain.CheckResult{
		Name:    cs.Name,
		Passed:  true,
		Message: fmt.Sprintf("%s exists", subject),
	}
}

// withinTolerance treats eq as a relative comparison so summary metrics
// survive floating point noise. Exact zero targets compare absolutely.
func withinTolerance(got, want, tol float64) bool {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	diff := math.Abs(got - want)
	scale := math.Max(math.Abs(got), math.Abs(want))
	if scale == 0 {
		return diff == 0
	}
	return diff <= tol*scale
}

func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func toFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	case []any:
		if len(v) == 1 {
			return toFloat64(v[0])
		}
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
