package ctxutil

import (
	"context"
	"time"
)

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Detached keeps ctx's values (trace data, spans) but drops its cancellation, bounding the
// result by timeout instead. Used for side effects that must outlive the inbound request.
func Detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(Default(ctx))
	if timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, timeout)
}
