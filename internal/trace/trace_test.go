package trace

import (
	"context"
	"errors"
	"testing"

	"tiyende/internal/config"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestInitTracing_HTTPShutdown(t *testing.T) {
	cfg := &config.TracingConfig{
		Enabled:     true,
		ServiceName: "tiyende-test",
		Protocol:    "http",
		Insecure:    true,
		SamplerRate: 2.5,
		Environment: "dev",
		Headers:     map[string]string{"x-test": "1"},
	}

	shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestBuilder_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	scope := Tracer("tiyende/test").Start(context.Background(), "session.create").
		WithAttrs(attribute.Int64("user.id", 1))
	require.NotNil(t, scope.Ctx)
	scope.Fail(errors.New("boom"))
	scope.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "session.create", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Contains(t, spans[0].Attributes(), attribute.Int64("user.id", 1))
}

func TestSpanScope_NilSafe(t *testing.T) {
	var s *SpanScope
	s.WithAttrs(attribute.String("k", "v"))
	s.Fail(errors.New("x"))
	s.End()
}
