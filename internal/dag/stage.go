package dag

import "slices"

// StageForBuild returns the elements to stage in order to build an element
// whose direct build dependencies are buildDeps: each build dependency B
// together with runtimeClosure(B). B's own build dependencies are not part of
// the result; they were only needed to produce B. The result is sorted.
func StageForBuild(buildDeps []string, runtimeClosure func(string) []string) []string {
	set := make(map[string]struct{})
	for _, b := range buildDeps {
		set[b] = struct{}{}
		for _, r := range runtimeClosure(b) {
			set[r] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
