package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sevigo/code-inspector/internal/core"
)

const (
	decisionPrefix = "DECISION: "
	reasonPrefix   = "REASON:"
)

// ErrVerdictParse is returned when model output is not exactly a DECISION line
// followed by a REASON line.
var ErrVerdictParse = errors.New("verdict does not match the DECISION/REASON format")

// GenericRejectReason is the reason attached to a verdict that failed to parse.
const GenericRejectReason = "Quality verdict could not be parsed; rejecting by default."

// FormatVerdict renders v in the two-line form ParseVerdict accepts.
func FormatVerdict(v core.Verdict) string {
	return decisionPrefix + string(v.Decision) + "\n" + reasonPrefix + " " + v.Reason
}

// ParseVerdict reads the two-line verdict grammar. Surrounding blank lines are
// tolerated; anything else that deviates yields a REJECT verdict with
// GenericRejectReason and an error wrapping ErrVerdictParse.
func ParseVerdict(text string) (core.Verdict, error) {
	rejected := core.Verdict{Decision: core.DecisionReject, Reason: GenericRejectReason}

	lines := strings.Split(strings.Trim(text, "\r\n"), "\n")
	if len(lines) != 2 {
		return rejected, fmt.Errorf("%w: expected 2 lines, got %d", ErrVerdictParse, len(lines))
	}
	decisionLine := strings.TrimSuffix(lines[0], "\r")
	reasonLine := strings.TrimSuffix(lines[1], "\r")

	decision, ok := strings.CutPrefix(decisionLine, decisionPrefix)
	if !ok {
		return rejected, fmt.Errorf("%w: first line %q is not a decision", ErrVerdictParse, decisionLine)
	}
	switch core.Decision(decision) {
	case core.DecisionApprove, core.DecisionReject:
	default:
		return rejected, fmt.Errorf("%w: unknown decision %q", ErrVerdictParse, decision)
	}

	reason, ok := strings.CutPrefix(reasonLine, reasonPrefix)
	if !ok {
		return rejected, fmt.Errorf("%w: second line %q is not a reason", ErrVerdictParse, reasonLine)
	}
	if reason != "" {
		if reason, ok = strings.CutPrefix(reason, " "); !ok {
			return rejected, fmt.Errorf("%w: missing space after %s", ErrVerdictParse, reasonPrefix)
		}
	}

	return core.Verdict{Decision: core.Decision(decision), Reason: reason}, nil
}
