package domain

import "time"

// Report aggregates per-file outcomes for a whole run. The three skip
// variants collapse into the single Skipped counter.
type Report struct {
	Formatted int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
}

// Record counts one outcome.
func (r *Report) Record(k OutcomeKind) {
	switch {
	case k == OutcomeFormatted:
		r.Formatted++
	case k == OutcomeFailed:
		r.Failed++
	case k.Skipped():
		r.Skipped++
	}
}

// Total returns the number of files accounted for.
func (r *Report) Total() int {
	return r.Formatted + r.Failed + r.Skipped
}
