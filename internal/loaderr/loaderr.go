// Package loaderr defines the error kinds raised while loading and resolving
// element declarations. Every kind is fatal to the resolution in progress.
package loaderr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedDeclaration       = errors.New("malformed declaration")
	ErrUndefinedVariable          = errors.New("undefined variable")
	ErrMalformedVariableReference = errors.New("malformed variable reference")
	ErrVariableReferenceCycle     = errors.New("variable reference cycle")
	ErrUnknownDependencyTarget    = errors.New("unknown dependency target")
	ErrDependencyCycle            = errors.New("dependency cycle")
)

// Error is a resolution failure attributed to an element.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Element is the key of the offending element, if known.
	Element string
	// Provenance locates the failure in a source file (file:line:col).
	Provenance string
	Msg        string
	// Chain holds the full reference chain for cycle errors, first node
	// repeated at the end.
	Chain []string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	if e.Provenance != "" {
		sb.WriteString(e.Provenance)
		sb.WriteString(": ")
	} else if e.Element != "" {
		sb.WriteString(e.Element)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if len(e.Chain) > 0 {
		sb.WriteString(": ")
		sb.WriteString(FormatChain(e.Chain))
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// FormatChain renders a reference chain as "a → b → a".
func FormatChain(chain []string) string {
	return strings.Join(chain, " → ")
}

// Malformed returns an ErrMalformedDeclaration for the given element.
func Malformed(element, format string, args ...any) *Error {
	return &Error{Kind: ErrMalformedDeclaration, Element: element, Msg: fmt.Sprintf(format, args...)}
}

// At sets the provenance of the error and returns it.
func (e *Error) At(provenance string) *Error {
	e.Provenance = provenance
	return e
}

// For sets the element of the error if it has none and returns it.
func (e *Error) For(element string) *Error {
	if e.Element == "" {
		e.Element = element
	}
	return e
}

// As extracts a *Error from err.
func As(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
