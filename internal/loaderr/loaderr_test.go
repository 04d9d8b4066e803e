package loaderr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	testCases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "kind only",
			err:  &Error{Kind: ErrDependencyCycle},
			want: "dependency cycle",
		},
		{
			name: "element and message",
			err:  Malformed("base.bst", "missing %q", "kind"),
			want: `base.bst: malformed declaration: missing "kind"`,
		},
		{
			name: "provenance wins over element",
			err:  Malformed("base.bst", "bad").At("elements/base.bst:3:5"),
			want: "elements/base.bst:3:5: malformed declaration: bad",
		},
		{
			name: "chain",
			err:  &Error{Kind: ErrVariableReferenceCycle, Element: "x.bst", Chain: []string{"a", "b", "a"}},
			want: "x.bst: variable reference cycle: a → b → a",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_IsAndAs(t *testing.T) {
	base := &Error{Kind: ErrUndefinedVariable, Msg: "y"}
	wrapped := fmt.Errorf("resolving element: %w", base.For("a.bst"))

	assert.True(t, errors.Is(wrapped, ErrUndefinedVariable))
	assert.False(t, errors.Is(wrapped, ErrDependencyCycle))

	le, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "a.bst", le.Element)

	// For does not overwrite an existing element.
	le.For("b.bst")
	assert.Equal(t, "a.bst", le.Element)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
