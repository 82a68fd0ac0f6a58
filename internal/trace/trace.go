// Package trace tags each command invocation with an operation id so the
// structured logs of one CLI run can be correlated.
package trace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const opIDKey ctxKey = "op_id"

// NewOpID generates a unique id for one command invocation.
func NewOpID() string {
	return uuid.NewString()
}

// WithOpID attaches an operation id to the context, generating one when
// empty.
func WithOpID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewOpID()
	}
	return context.WithValue(ctx, opIDKey, id)
}

// OpID extracts the operation id from the context, or "" when absent.
func OpID(ctx context.Context) string {
	if id, ok := ctx.Value(opIDKey).(string); ok {
		return id
	}
	return ""
}
