// Package registry maps element kinds to their built-in defaults.
//
// Every kind compiled into the binary is provided by a module under modules/
// that implements Module and registers itself at startup. A kind's defaults
// are the lowest composition layer of every element of that kind. Projects
// may add kinds of their own from a directory of YAML files.
//
// Looking up a kind that nobody registered is the error an external plugin
// loader would raise; the composer itself never sees unknown kinds.
package registry
