package element

import (
	"fmt"
	"strings"
)

// DepType says in which graph a dependency produces an edge.
type DepType string

const (
	// DepAll is an unset type: the dependency is needed to build and to run.
	DepAll     DepType = ""
	DepBuild   DepType = "build"
	DepRuntime DepType = "runtime"
)

// ParseDepType validates a declared dependency type.
func ParseDepType(s string) (DepType, error) {
	switch t := DepType(s); t {
	case DepAll, DepBuild, DepRuntime:
		return t, nil
	default:
		return DepAll, fmt.Errorf("invalid dependency type %q: must be %q or %q", s, DepBuild, DepRuntime)
	}
}

// Build reports whether the dependency adds a build edge.
func (t DepType) Build() bool { return t != DepRuntime }

// Runtime reports whether the dependency adds a runtime edge.
func (t DepType) Runtime() bool { return t != DepBuild }

func (t DepType) String() string {
	if t == DepAll {
		return "all"
	}
	return string(t)
}

// Dependency is one entry of an element's depends list. A bare string in a
// declaration is a Dependency with only Filename set.
type Dependency struct {
	Filename string  `json:"filename" yaml:"filename"`
	Type     DepType `json:"type,omitempty" yaml:"type,omitempty"`
	Junction string  `json:"junction,omitempty" yaml:"junction,omitempty"`
	// Provenance locates the declaration (file:line:col).
	Provenance string `json:"-" yaml:"-"`
}

// KeySeparator joins a junction key and an element path.
const KeySeparator = ":"

// JoinKey returns the canonical key of filename inside the project linked by
// the junction whose key is junctionKey. An empty junctionKey means the local
// project.
func JoinKey(junctionKey, filename string) string {
	if junctionKey == "" {
		return filename
	}
	return junctionKey + KeySeparator + filename
}

// SplitKey is the inverse of JoinKey for the outermost junction.
func SplitKey(key string) (junctionKey, filename string) {
	i := strings.LastIndex(key, KeySeparator)
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}
