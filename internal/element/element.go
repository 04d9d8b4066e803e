// Package element defines the declaration, composed, and resolved forms of a
// build element.
//
// A Layer is one raw configuration layer as read from a file. The
// composer merges layers into an Element, which still carries unexpanded
// %{name} references. The resolver turns an Element into a Resolved, which is
// immutable and is what the rest of the system consumes.
package element

import (
	"github.com/vk/bstgraph/internal/variables"
)

// Recognized top-level keys of a declaration.
const (
	KeyKind               = "kind"
	KeyDepends            = "depends"
	KeySources            = "sources"
	KeyVariables          = "variables"
	KeyEnvironment        = "environment"
	KeyEnvironmentNoCache = "environment-nocache"
	KeyConfig             = "config"
	KeyPublic             = "public"
	KeySandbox            = "sandbox"
)

// Keys lists every recognized top-level key.
var Keys = []string{
	KeyKind, KeyDepends, KeySources, KeyVariables, KeyEnvironment,
	KeyEnvironmentNoCache, KeyConfig, KeyPublic, KeySandbox,
}

// Suffix is the file extension of element declarations.
const Suffix = ".bst"

// KindJunction is the kind of elements that link another project.
const KindJunction = "junction"

// DomainBst is the reserved public data domain.
const DomainBst = "bst"

// Sandbox holds the sandbox settings of an element.
type Sandbox struct {
	BuildUID int `json:"build-uid" yaml:"build-uid"`
	BuildGID int `json:"build-gid" yaml:"build-gid"`
}

// Source is one source declaration. Kind and Directory are recognized by the
// core; everything else is plugin specific and kept in Config.
type Source struct {
	Kind      string         `json:"kind" yaml:"kind"`
	Directory string         `json:"directory,omitempty" yaml:"directory,omitempty"`
	Config    map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Layer is one raw configuration layer: an element file, the project's
// overrides for a kind, or a kind's built-in defaults. Fields holds the
// recognized top-level keys with their raw values; a key that is absent was
// not declared in the layer.
type Layer struct {
	Fields map[string]any
	// Origin names where the layer came from, e.g. a file path.
	Origin string
	// Positions maps a field path ("kind", "depends[2]", "config.x") to its
	// location in Origin. Loaders fill in what they know.
	Positions map[string]string
}

// Pos returns the recorded position of a field path, falling back to the
// layer's origin.
func (l Layer) Pos(field string) string {
	if p, ok := l.Positions[field]; ok {
		return p
	}
	return l.Origin
}

// Element is the composed, not yet resolved, record of one element.
type Element struct {
	Name               string
	Kind               string
	Depends            []Dependency
	Sources            []Source
	Variables          variables.Table
	Environment        map[string]string
	EnvironmentNoCache []string
	Config             map[string]any
	Public             map[string]any
	Sandbox            Sandbox
	Provenance         string
}

// Resolved is an element with every variable reference expanded. It must not
// be modified once produced.
type Resolved struct {
	Name               string            `json:"name" yaml:"name"`
	Kind               string            `json:"kind" yaml:"kind"`
	Depends            []Dependency      `json:"depends,omitempty" yaml:"depends,omitempty"`
	Sources            []Source          `json:"sources,omitempty" yaml:"sources,omitempty"`
	Variables          map[string]string `json:"variables" yaml:"variables"`
	Environment        map[string]string `json:"environment,omitempty" yaml:"environment,omitempty"`
	EnvironmentNoCache []string          `json:"environment-nocache,omitempty" yaml:"environment-nocache,omitempty"`
	Config             map[string]any    `json:"config,omitempty" yaml:"config,omitempty"`
	Public             map[string]any    `json:"public,omitempty" yaml:"public,omitempty"`
	Sandbox            Sandbox           `json:"sandbox" yaml:"sandbox"`
	Provenance         string            `json:"-" yaml:"-"`
}

// PublicDomain returns the public data of one domain, or nil.
func (r *Resolved) PublicDomain(domain string) map[string]any {
	m, _ := r.Public[domain].(map[string]any)
	return m
}

// IntegrationCommands returns public.bst.integration-commands.
func (r *Resolved) IntegrationCommands() []string {
	raw, _ := r.PublicDomain(DomainBst)["integration-commands"].([]any)
	cmds := make([]string, 0, len(raw))
	for _, c := range raw {
		if s, ok := c.(string); ok {
			cmds = append(cmds, s)
		}
	}
	return cmds
}

// IsJunction reports whether the element links another project.
func (r *Resolved) IsJunction() bool {
	return r.Kind == KindJunction
}
