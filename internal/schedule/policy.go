package schedule

import "fmt"

// AmbiguityReport controls what compilation does with ambiguous task pairs.
type AmbiguityReport string

const (
	// ReportWarn logs one warning per ambiguous pair per compilation.
	ReportWarn AmbiguityReport = "warn"
	// ReportIgnore suppresses every ambiguity warning for the phase.
	ReportIgnore AmbiguityReport = "ignore"
	// ReportError fails compilation with an *errors.AmbiguityError.
	ReportError AmbiguityReport = "error"
)

// ParseAmbiguityReport converts a configuration string into a report mode.
// The empty string selects ReportWarn.
func ParseAmbiguityReport(s string) (AmbiguityReport, error) {
	switch AmbiguityReport(s) {
	case "", ReportWarn:
		return ReportWarn, nil
	case ReportIgnore:
		return ReportIgnore, nil
	case ReportError:
		return ReportError, nil
	default:
		return "", fmt.Errorf("invalid ambiguity report %q: must be 'warn', 'ignore' or 'error'", s)
	}
}

// AmbiguityPolicy decides which task pairs count as ambiguous and how they
// are reported.
type AmbiguityPolicy struct {
	Report AmbiguityReport
	// SetsOrderMembers makes orderings that exist only through set-level
	// constraints (ConfigureSets, ChainSets) count as intentional. When
	// false, only task-level constraints and chains do, and members ordered
	// solely by their sets are still reported.
	SetsOrderMembers bool
}

// DefaultAmbiguityPolicy warns about ambiguous pairs and treats set-level
// constraints as ordering their members.
func DefaultAmbiguityPolicy() AmbiguityPolicy {
	return AmbiguityPolicy{Report: ReportWarn, SetsOrderMembers: true}
}
