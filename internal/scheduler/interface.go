package scheduler

import (
	"context"

	"github.com/vk/bstgraph/internal/element"
)

// Processor does the work for one element. It is called concurrently from
// several workers; each call gets its own copy of the element.
type Processor interface {
	Process(ctx context.Context, e *element.Resolved) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, e *element.Resolved) error

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, e *element.Resolved) error {
	return f(ctx, e)
}

// Registry is what the scheduler needs from a resolution result.
// *engine.Registry satisfies it. ResolvedElement must return an element the
// caller may keep or modify.
type Registry interface {
	BuildOrder() []string
	StageForBuild(key string) ([]string, error)
	ResolvedElement(key string) (*element.Resolved, error)
}
