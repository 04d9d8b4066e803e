package dag

import (
	"container/heap"
)

type stringMinHeap []string

func (h stringMinHeap) Len() int           { return len(h) }
func (h stringMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h stringMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *stringMinHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *stringMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder returns a topological order of nodes under the given
// prerequisite relation using Kahn's algorithm. The ready set is a min-heap
// on the key, so among nodes that are ready at the same time the
// lexically smallest comes first. It returns false if the relation has a
// cycle.
func topoOrder(nodes []string, prereqs map[string][]string) ([]string, bool) {
	indeg := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		indeg[n] = len(prereqs[n])
		for _, p := range prereqs[n] {
			dependents[p] = append(dependents[p], n)
		}
	}

	ready := &stringMinHeap{}
	for _, n := range nodes {
		if indeg[n] == 0 {
			heap.Push(ready, n)
		}
	}

	out := make([]string, 0, len(nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(string)
		out = append(out, n)
		for _, m := range dependents[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return out, len(out) == len(nodes)
}
