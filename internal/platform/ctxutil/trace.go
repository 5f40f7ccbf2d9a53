package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries the ids stamped on every inbound request by the trace middleware.
// TraceID follows the otel span when one exists; RequestID echoes X-Request-Id or is
// generated. Both end up on the request log line and the response headers.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

// GetTraceData returns nil when the request did not pass through the trace middleware.
func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}
