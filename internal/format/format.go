// Package format renders feature sets into fixed-layout text blocks for
// synthesis and terminal reports.
//
// The formatters are pure functions over the feature structs and their
// output is byte-stable: section order, labels, and number rendering never
// vary between runs of the same input. Downstream consumers (the summary
// collaborator, report writers, tests) rely on that stability.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// num renders a float without trailing zeros ("44.6", not "44.60").
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// orNA substitutes "N/A" for an empty string signal.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatList joins up to max items, appending a "+N more" suffix for the
// remainder. An empty list renders as "None".
func formatList(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:max], ", ") + fmt.Sprintf(" (+ %d more)", len(items)-max)
}

// formatScore renders a 0-100 category score or "N/A".
func formatScore(score *int) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d/100", *score)
}

// formatVitalScore renders a scaled metric score or "N/A". Fractions are
// truncated, matching the integer rendering of category scores.
func formatVitalScore(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d/100", int(*score))
}

// formatMs renders a millisecond value truncated to whole ms, or "N/A".
func formatMs(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%dms", int(*v))
}

// formatBytes renders a byte count with KB/MB thresholds at 1024, two
// decimals, or "N/A".
func formatBytes(v *int) string {
	if v == nil {
		return "N/A"
	}
	switch {
	case *v < 1024:
		return fmt.Sprintf("%d bytes", *v)
	case *v < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(*v)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(*v)/(1024*1024))
	}
}

// categorizeLCP buckets a Largest Contentful Paint value against the
// 2.5s/4s thresholds.
func categorizeLCP(v *float64) string {
	switch {
	case v == nil:
		return "N/A"
	case *v < 2500:
		return "Good (< 2.5s)"
	case *v < 4000:
		return "Needs Improvement (2.5-4s)"
	default:
		return "Poor (> 4s)"
	}
}

// categorizeFID buckets a First Input Delay value against the
// 100ms/300ms thresholds.
func categorizeFID(v *float64) string {
	switch {
	case v == nil:
		return "N/A"
	case *v < 100:
		return "Good (< 100ms)"
	case *v < 300:
		return "Needs Improvement (100-300ms)"
	default:
		return "Poor (> 300ms)"
	}
}

// categorizeCLS buckets a Cumulative Layout Shift value against the
// 0.1/0.25 thresholds.
func categorizeCLS(v *float64) string {
	switch {
	case v == nil:
		return "N/A"
	case *v < 0.1:
		return "Good (< 0.1)"
	case *v < 0.25:
		return "Needs Improvement (0.1-0.25)"
	default:
		return "Poor (> 0.25)"
	}
}
