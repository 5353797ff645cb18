package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/xiebiao/readtrack/pkg/tracing"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracing.Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func TestTracingHook_Process(t *testing.T) {
	recorder := installRecorder(t)
	ctx := context.Background()
	hook := tracingHook{}

	miss := hook.ProcessHook(func(context.Context, redis.Cmder) error { return redis.Nil })
	assert.ErrorIs(t, miss(ctx, redis.NewStringCmd(ctx, "get", "readtrack:book:1")), redis.Nil)

	boom := errors.New("connection reset")
	failing := hook.ProcessHook(func(context.Context, redis.Cmder) error { return boom })
	assert.ErrorIs(t, failing(ctx, redis.NewStatusCmd(ctx, "set", "k", "v")), boom)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "redis.get", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "redis.set", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestTracingHook_Pipeline(t *testing.T) {
	recorder := installRecorder(t)
	ctx := context.Background()

	pipeline := tracingHook{}.ProcessPipelineHook(func(context.Context, []redis.Cmder) error { return nil })
	require.NoError(t, pipeline(ctx, []redis.Cmder{
		redis.NewIntCmd(ctx, "del", "a"),
		redis.NewIntCmd(ctx, "del", "b"),
	}))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "redis.pipeline", spans[0].Name())
}
