// Package pipeline orchestrates one analysis run: classification, branch
// eligibility, concurrent extraction, and optional synthesis.
//
// The three branches (SEO, performance, visual) are declared as a list of
// (name, eligibility predicate, run function) entries rather than wired as
// imperative call sites. Eligibility is decided by pure structural checks
// over the raw input, never by the classifier, so a classifier outage
// degrades classification quality without blocking extraction.
//
// Design decision: Branches run concurrently under errgroup but never
// propagate errors through it. A branch failure is contained at the branch
// boundary as a Failed BranchResult; sibling branches always run to
// completion and the barrier always yields exactly one result per branch.
// Cancellation of the parent context is the only thing that interrupts a
// run early.
package pipeline
