package scheduler

import (
	"fmt"
	"slices"
)

// tracker holds the dependency counters of one run. It is owned by the
// coordinating goroutine.
type tracker struct {
	order      []string
	pending    map[string]int
	dependents map[string][]string
	status     map[string]Status
	remaining  int
}

func newTracker(reg Registry) (*tracker, error) {
	order := reg.BuildOrder()
	t := &tracker{
		order:      order,
		pending:    make(map[string]int, len(order)),
		dependents: make(map[string][]string, len(order)),
		status:     make(map[string]Status, len(order)),
		remaining:  len(order),
	}
	for _, k := range order {
		t.status[k] = Pending
	}
	for _, k := range order {
		stage, err := reg.StageForBuild(k)
		if err != nil {
			return nil, fmt.Errorf("failed to get staging set of %s: %w", k, err)
		}
		t.pending[k] = len(stage)
		for _, dep := range stage {
			t.dependents[dep] = append(t.dependents[dep], k)
		}
	}
	return t, nil
}

// initial returns the elements with nothing to wait for, in build order.
func (t *tracker) initial() []string {
	var out []string
	for _, k := range t.order {
		if t.pending[k] == 0 {
			out = append(out, k)
		}
	}
	return out
}

// complete marks key done and returns the dependents it released.
func (t *tracker) complete(key string) []string {
	t.status[key] = Done
	t.remaining--
	var released []string
	for _, d := range t.dependents[key] {
		t.pending[d]--
		if t.pending[d] == 0 && t.status[d] == Pending {
			released = append(released, d)
		}
	}
	return released
}

// fail records the outcome of key and skips everything that transitively
// waits on it. It returns the newly skipped elements.
func (t *tracker) fail(key string, s Status) []string {
	t.status[key] = s
	t.remaining--
	var skipped []string
	queue := slices.Clone(t.dependents[key])
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		if t.status[d] != Pending {
			continue
		}
		t.status[d] = Skipped
		t.remaining--
		skipped = append(skipped, d)
		queue = append(queue, t.dependents[d]...)
	}
	return skipped
}
