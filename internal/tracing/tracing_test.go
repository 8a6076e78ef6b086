package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestInitWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init("hsk", "0.0.1", &buf)
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "test", trace.SpanKindInternal)
	EndSpan(span, nil)

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "test"`)
}

func TestEndSpanRecordsError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitWithExporter("hsk", "0.0.1", exporter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	ctx, parent := StartSpan(context.Background(), "parent", trace.SpanKindInternal)
	_, child := StartSpan(ctx, "child", trace.SpanKindClient)
	EndSpan(child, errors.New("boom"))
	EndSpan(parent, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "child", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())

	assert.Equal(t, "parent", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
}

func TestEndSpanNil(t *testing.T) {
	assert.NotPanics(t, func() { EndSpan(nil, nil) })
}
