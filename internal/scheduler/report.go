package scheduler

import (
	"maps"
	"slices"
)

// Status is the outcome of one element in a run.
type Status int

const (
	Pending Status = iota
	Done
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Report describes a finished run.
type Report struct {
	RunID    string
	Statuses map[string]Status
	// Errors holds the processor error of every failed element.
	Errors map[string]error
}

func (r *Report) with(s Status) []string {
	var out []string
	for _, k := range slices.Sorted(maps.Keys(r.Statuses)) {
		if r.Statuses[k] == s {
			out = append(out, k)
		}
	}
	return out
}

// Done returns the elements processed successfully, sorted.
func (r *Report) Done() []string { return r.with(Done) }

// Failed returns the elements whose processor returned an error, sorted.
func (r *Report) Failed() []string { return r.with(Failed) }

// Skipped returns the elements that were never processed, sorted.
func (r *Report) Skipped() []string { return r.with(Skipped) }
