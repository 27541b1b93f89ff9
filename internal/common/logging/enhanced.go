package logging

import (
	"context"
	"log/slog"

	"github.com/tanvirk/ixreach/internal/common/runid"
)

var _ slog.Handler = (*EnhancedHandler)(nil)

// EnhancedHandler decorates a slog.Handler with the run ID carried by
// the record's context.
type EnhancedHandler struct {
	w slog.Handler
}

func NewEnhancedHandler(handler slog.Handler) *EnhancedHandler {
	return &EnhancedHandler{w: handler}
}

func (h *EnhancedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.w.Enabled(ctx, level)
}

func (h *EnhancedHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := runid.Get(ctx); id != "" {
		r.Add(slog.String("run_id", id))
	}

	return h.w.Handle(ctx, r)
}

func (h *EnhancedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.clone(h.w.WithAttrs(attrs))
}

func (h *EnhancedHandler) WithGroup(name string) slog.Handler {
	return h.clone(h.w.WithGroup(name))
}

func (h *EnhancedHandler) clone(handler slog.Handler) *EnhancedHandler {
	return &EnhancedHandler{w: handler}
}
