package variables

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/bstgraph/internal/loaderr"
)

// identRegex is the grammar for variable names and reference contents.
var identRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

const (
	refOpen  = "%{"
	refClose = "}"
)

// IsIdentifier reports whether name is a valid variable name.
func IsIdentifier(name string) bool {
	return identRegex.MatchString(name)
}

// segment is either a literal run of text or a reference to a variable.
type segment struct {
	literal string
	ref     string
}

func (s segment) isRef() bool { return s.ref != "" }

// parse splits a raw value into literal and reference segments. Anything
// inside %{...} that is not an identifier, and any unterminated %{, is a
// malformed reference.
func parse(raw string) ([]segment, error) {
	if !strings.Contains(raw, refOpen) {
		return []segment{{literal: raw}}, nil
	}

	var segs []segment
	rest := raw
	for {
		start := strings.Index(rest, refOpen)
		if start < 0 {
			if rest != "" {
				segs = append(segs, segment{literal: rest})
			}
			return segs, nil
		}
		if start > 0 {
			segs = append(segs, segment{literal: rest[:start]})
		}
		rest = rest[start+len(refOpen):]

		end := strings.Index(rest, refClose)
		if end < 0 {
			return nil, &loaderr.Error{
				Kind: loaderr.ErrMalformedVariableReference,
				Msg:  fmt.Sprintf("unterminated reference in %q", raw),
			}
		}
		name := rest[:end]
		if !IsIdentifier(name) {
			return nil, &loaderr.Error{
				Kind: loaderr.ErrMalformedVariableReference,
				Msg:  fmt.Sprintf("invalid reference %q in %q", refOpen+name+refClose, raw),
			}
		}
		segs = append(segs, segment{ref: name})
		rest = rest[end+len(refClose):]
	}
}
