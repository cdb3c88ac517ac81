package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTraceContext(t *testing.T) {
	tc := NewTraceContext("req-1", "", "")
	assert.Equal(t, "req-1", tc.RequestID)
	assert.Len(t, tc.TraceID, 36)
	assert.Len(t, tc.SpanID, 16)

	kept := NewTraceContext("req-2", "trace-2", "span-2")
	assert.Equal(t, &TraceContext{TraceID: "trace-2", SpanID: "span-2", RequestID: "req-2"}, kept)
}

func TestWithTrace(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTrace(ctx))
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithTrace(ctx, NewTraceContext("req-1", "trace-1", ""))
	require.NotNil(t, GetTrace(ctx))
	assert.Equal(t, "trace-1", GetTrace(ctx).TraceID)
	assert.Equal(t, "req-1", GetRequestID(ctx))
}
