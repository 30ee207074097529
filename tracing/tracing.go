package tracing

import (
	"context"
	"errors"
	"io"
	"os"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/viant/houghcircles"

// Config identifies the traced process and where spans are written.
type Config struct {
	Service string
	Version string
	// File receives the spans as JSON lines; stdout when empty.
	File string
}

// Shutdown flushes pending spans and releases the exporter.
type Shutdown func(ctx context.Context) error

// Init installs a global tracer provider exporting spans through the stdout
// exporter.
func Init(config Config) (Shutdown, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if config.File != "" {
		f, err := os.Create(config.File)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	shutdown, err := InitWithExporter(config, exporter)
	if err != nil || closer == nil {
		return shutdown, err
	}
	return func(ctx context.Context) error {
		return errors.Join(shutdown(ctx), closer.Close())
	}, nil
}

// InitWithExporter installs a global tracer provider backed by exporter.
func InitWithExporter(config Config, exporter sdktrace.SpanExporter) (Shutdown, error) {
	if exporter == nil {
		return func(context.Context) error { return nil }, nil
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", config.Service),
			attribute.String("service.version", config.Version),
		),
	)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// Span is a started operation.
type Span struct {
	span trace.Span
}

// Annotate attaches string attributes.
func (s *Span) Annotate(attrs map[string]string) {
	if s == nil || len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kvs := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		kvs = append(kvs, attribute.String(k, attrs[k]))
	}
	s.span.SetAttributes(kvs...)
}

// StartSpan starts an internal span named name carrying attrs.
func StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, *Span) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	ret := &Span{span: span}
	ret.Annotate(attrs)
	return ctx, ret
}

// EndSpan ends the span with an error status when err is not nil.
func EndSpan(span *Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.span.RecordError(err)
		span.span.SetStatus(codes.Error, err.Error())
	} else {
		span.span.SetStatus(codes.Ok, "")
	}
	span.span.End()
}
