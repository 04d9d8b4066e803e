package config

import (
	"context"

	"github.com/vk/bstgraph/internal/element"
)

// Loader is the interface for a format-specific project loader.
type Loader interface {
	// Load reads the project rooted at dir and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, dir string) (*Model, error)
}

// ElementParser parses the declaration of one element.
type ElementParser interface {
	// ParseElement decodes data, which was read from origin, into a raw layer.
	ParseElement(origin string, data []byte) (element.Layer, error)
}
