// Package domain contains the core types of the reformat pipeline.
package domain

// OutcomeKind classifies the result of processing a single candidate file.
type OutcomeKind uint8

const (
	// OutcomeFormatted indicates the file content changed and was rewritten.
	OutcomeFormatted OutcomeKind = iota
	// OutcomeSkippedCached indicates the file already matched its cached formatted hash.
	OutcomeSkippedCached
	// OutcomeSkippedUnchanged indicates formatting produced byte-identical content.
	OutcomeSkippedUnchanged
	// OutcomeSkippedNotApplicable indicates the engine declined to format the file.
	OutcomeSkippedNotApplicable
	// OutcomeFailed indicates an I/O or engine error while processing the file.
	OutcomeFailed
)

// String returns a human-readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFormatted:
		return "formatted"
	case OutcomeSkippedCached:
		return "skipped (cached)"
	case OutcomeSkippedUnchanged:
		return "skipped (unchanged)"
	case OutcomeSkippedNotApplicable:
		return "skipped (not applicable)"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Skipped reports whether the kind is one of the skip variants.
func (k OutcomeKind) Skipped() bool {
	switch k {
	case OutcomeSkippedCached, OutcomeSkippedUnchanged, OutcomeSkippedNotApplicable:
		return true
	default:
		return false
	}
}

// Outcome is the per-file result produced by the runner and consumed by the
// run report. Err is set only when Kind is OutcomeFailed.
type Outcome struct {
	Path string
	Kind OutcomeKind
	Err  error
}
