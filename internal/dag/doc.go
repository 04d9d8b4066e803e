// Package dag builds the two dependency graphs of a project and derives the
// build plan from them.
//
// The build graph has an edge A -> B when B's product must be staged to build
// A; the runtime graph has one when B must be present for A to function. The
// staging set of A is every build dependency B of A together with B's runtime
// closure, but never B's own build dependencies. The build order is a
// topological order of the staging relation.
//
// Node keys are opaque: junction elements arrive already mapped to canonical
// keys, so nothing here knows about projects.
package dag
