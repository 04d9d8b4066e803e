package registry

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/loaderr"
)

// Keys a kind's defaults may not set: they describe one element, not a kind.
// The kind name comes from the registration, or the file name for local kinds.
var elementOnlyKeys = []string{element.KeyKind, element.KeyDepends, element.KeySources}

// validateDefaults checks that defaults only use keys that make sense for
// every element of a kind. Unknown keys are already rejected by the parser.
func validateDefaults(kind *Kind) error {
	var errs []string
	for _, key := range slices.Sorted(maps.Keys(kind.Defaults.Fields)) {
		if slices.Contains(elementOnlyKeys, key) {
			errs = append(errs, fmt.Sprintf("key '%s' cannot be set for a whole kind", key))
		}
	}
	if len(errs) > 0 {
		return loaderr.Malformed("", "defaults of kind '%s' are invalid:\n- %s", kind.Name, strings.Join(errs, "\n- ")).At(kind.Defaults.Origin)
	}
	return nil
}
