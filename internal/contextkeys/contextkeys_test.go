package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDsAreIndependent(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "trace-1")
	ctx = ContextWithSessionID(ctx, "session-1")

	assert.Equal(t, "trace-1", TraceIDFromContext(ctx))
	assert.Equal(t, "session-1", SessionIDFromContext(ctx))
}

func TestMissingValues(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, TraceIDFromContext(ctx))
	assert.Empty(t, SessionIDFromContext(ctx))
	assert.NotNil(t, LoggerFromContext(ctx))
}

func TestLoggerRoundTrip(t *testing.T) {
	logger := NoopLogger()
	ctx := ContextWithLogger(context.Background(), logger)

	assert.Same(t, logger, LoggerFromContext(ctx))
}
