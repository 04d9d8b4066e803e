// Package engine runs the resolution pipeline: it loads a project, composes
// and resolves every element, maps dependencies (across junctions, too) onto
// canonical keys, and builds the dependency graphs. The result is a Registry,
// published only when every step succeeded.
package engine
