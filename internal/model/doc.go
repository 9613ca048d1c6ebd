// Package model defines the data structures shared across the analysis
// pipeline: the tagged input union, the three feature sets produced by the
// extractors, and the combined report handed to synthesis.
//
// All entities are request-scoped. They are created when an analysis starts,
// mutated only by their owning extractor, and discarded once the report is
// returned. Nothing in this package persists across requests.
package model
