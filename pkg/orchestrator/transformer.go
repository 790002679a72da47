package orchestrator

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Transformer mutates a FormDefinition before overlay decorators run.
// Implementations can inject metadata or rules the schema cannot express.
type Transformer interface {
	Transform(ctx context.Context, def *model.FormDefinition) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, def *model.FormDefinition) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, def *model.FormDefinition) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, def)
}
