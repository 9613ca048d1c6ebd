package model

// Severity represents the impact level of an accessibility finding.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityModerate indicates usability problems that degrade the
	// experience for assistive-technology users but leave content reachable.
	// Example: heading-hierarchy problems.
	SeverityModerate Severity = iota

	// SeveritySerious indicates barriers that make content hard to use
	// with assistive technology.
	// Examples: images without alt text, links without accessible names,
	// a missing document language attribute.
	SeveritySerious

	// SeverityCritical indicates barriers that make a feature unusable
	// with assistive technology.
	// Example: form inputs with neither a bound label nor an accessible name.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeveritySerious:
		return "SERIOUS"
	case SeverityModerate:
		return "MODERATE"
	default:
		return "UNKNOWN"
	}
}

// Weight returns the score deduction for one finding of this severity.
// The accessibility score starts at 100 and subtracts Weight per finding.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 15
	case SeveritySerious:
		return 10
	case SeverityModerate:
		return 5
	default:
		return 0
	}
}
