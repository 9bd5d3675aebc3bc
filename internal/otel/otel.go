package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/authgraph/internal/eventbus"
	events "github.com/hanpama/authgraph/internal/events"
	passid "github.com/hanpama/authgraph/internal/passid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers that turn
// authorization-pass and predicate-RPC events into spans. If endpoint is
// empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("authgraph")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer    trace.Tracer
	passSpans sync.Map // pass id -> trace.Span
	grpcSpans sync.Map // pass id -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.AuthzStart) {
		pid, _ := passid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "authz.pass")
		span.SetAttributes(attribute.String("graphql.operation.type", e.Operation))
		s.passSpans.Store(pid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.AuthzDenied) {
		pid, _ := passid.FromContext(ctx)
		v, ok := s.passSpans.Load(pid)
		if !ok {
			return
		}
		v.(trace.Span).AddEvent("authz.denied", trace.WithAttributes(
			attribute.String("graphql.type", e.TypeName),
			attribute.String("authz.rule", e.Rule),
		))
	})

	eventbus.Subscribe(func(ctx context.Context, e events.AuthzFinish) {
		pid, _ := passid.FromContext(ctx)
		v, ok := s.passSpans.LoadAndDelete(pid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("authz.denied_count", e.Denied))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GRPCClientStart) {
		pid, _ := passid.FromContext(ctx)
		parent := ctx
		if v, ok := s.passSpans.Load(pid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "grpc.client")
		span.SetAttributes(
			semconv.RPCServiceKey.String(e.Service),
			semconv.RPCMethodKey.String(e.Method),
			attribute.String("net.peer.name", e.Target),
		)
		s.grpcSpans.Store(pid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GRPCClientFinish) {
		pid, _ := passid.FromContext(ctx)
		v, ok := s.grpcSpans.LoadAndDelete(pid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.String("grpc.code", e.Code.String()))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
