// ABOUTME: Enhancement domain model holds AI-rewritten title and description
// ABOUTME: Both fields are HTML-escaped and capped to the configured maxima

package domain

// Enhancement is the result of a successful AI rewrite of an entry.
// Title and Description are HTML-escaped and length-capped; Description
// may be empty, Title never is.
type Enhancement struct {
	Title       string
	Description string
}

// EnhancerStats reports cumulative counters for the enhancement service
type EnhancerStats struct {
	// Used counts successful enhancements
	Used int

	// Errors counts failed or rejected enhancements
	Errors int

	// TokenUsage accumulates provider-reported token consumption
	TokenUsage int
}
