package oteltrace

import (
	"context"

	"github.com/Zhima-Mochi/paygate/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a tracer resolved from the global provider, so it follows whatever
// Setup installed.
func New(name string) observability.Tracer {
	if name == "" {
		name = "paygate"
	}
	return &tracer{t: otel.Tracer(name)}
}

// FromProvider binds a tracer to an explicit provider.
func FromProvider(tp trace.TracerProvider, name string) observability.Tracer {
	if tp == nil {
		return New(name)
	}
	if name == "" {
		name = "paygate"
	}
	return &tracer{t: tp.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
