package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/wsm/internal/adapters/telemetry"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/wsm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnEnd_LogsDuration(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "resolve took ")
	})).Times(1)

	tracer := telemetry.NewOTelTracer(telemetry.NewBridge(log))
	_, span := tracer.Start(context.Background(), "resolve")
	span.End()
}

func TestBridge_OnEnd_LogsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "install 450814997 failed after ") &&
			strings.HasSuffix(msg, ": transport failed")
	})).Times(1)

	tracer := telemetry.NewOTelTracer(telemetry.NewBridge(log))
	_, span := tracer.Start(context.Background(), "install 450814997")
	span.RecordError(errors.New("transport failed"))
	span.End()
}

func TestBridge_NilLogger(t *testing.T) {
	tracer := telemetry.NewOTelTracer(telemetry.NewBridge(nil))
	_, span := tracer.Start(context.Background(), "quiet")
	require.NotPanics(t, span.End)
}

func TestOTelTracer_Attributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(recorder)

	ctx, parent := tracer.Start(context.Background(), "apply", ports.WithAttribute("actions", 2))
	_, child := tracer.Start(ctx, "install 1", ports.WithAttribute("item.id", "1"))
	child.SetAttribute("size", int64(1024))
	child.SetAttribute("ok", true)
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "install 1", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[0].Attributes(), attribute.String("item.id", "1"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int64("size", 1024))
	assert.Contains(t, spans[0].Attributes(), attribute.Bool("ok", true))
	assert.Contains(t, spans[1].Attributes(), attribute.Int("actions", 2))

	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	var tracer ports.Tracer = telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "noop", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, got)

	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}

var _ sdktrace.SpanProcessor = (*telemetry.Bridge)(nil)
