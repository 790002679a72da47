package submit

import "context"

// Payload is the projected value set handed to an Operation.
type Payload map[string]any

// Outcome is what a successful Operation returns. Record holds the created
// or updated entity as reported by the backend; NavigateTo overrides the
// coordinator's configured redirect when set.
type Outcome struct {
	Record     map[string]any
	NavigateTo string
}

// Operation performs the external call for a submission. Implementations
// must honour ctx cancellation.
type Operation interface {
	Execute(ctx context.Context, payload Payload) (Outcome, error)
}

// OperationFunc adapts a function into an Operation.
type OperationFunc func(ctx context.Context, payload Payload) (Outcome, error)

// Execute calls the underlying function.
func (fn OperationFunc) Execute(ctx context.Context, payload Payload) (Outcome, error) {
	return fn(ctx, payload)
}

type submissionIDKey struct{}

// WithSubmissionID stores the id of the current submission on ctx.
func WithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionIDKey{}, id)
}

// SubmissionID returns the id stored by the coordinator, if any. Backends
// forward it as a request id.
func SubmissionID(ctx context.Context) string {
	id, _ := ctx.Value(submissionIDKey{}).(string)
	return id
}
