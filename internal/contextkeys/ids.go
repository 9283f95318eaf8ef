package contextkeys

import "context"

type idKey int

const (
	traceIDKey idKey = iota
	sessionIDKey
)

// ContextWithTraceID stores the request trace id (X-Trace-ID).
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	return stringValue(ctx, traceIDKey)
}

// ContextWithSessionID stores the id of the screen session handling the call.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func SessionIDFromContext(ctx context.Context) string {
	return stringValue(ctx, sessionIDKey)
}

// stringValue returns "" for a missing key.
func stringValue(ctx context.Context, key idKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
