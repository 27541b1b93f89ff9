package runid

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// With returns a context carrying a run ID. A context that already has
// one is returned unchanged.
func With(ctx context.Context) context.Context {
	if _, ok := ctx.Value(ctxKey{}).(string); ok {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, generate())
}

// Get returns the run ID carried by ctx, or an empty string.
func Get(ctx context.Context) string {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func generate() string {
	v, _ := uuid.NewV7()
	return v.String()
}
