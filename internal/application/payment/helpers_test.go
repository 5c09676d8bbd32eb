package payment

import (
	"context"
	"sync"

	domoutbox "github.com/Zhima-Mochi/paygate/internal/domain/outbox"
	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type mockCircuit struct {
	mock.Mock
}

func (m *mockCircuit) Pay(ctx context.Context, amount dompay.Amount) (bool, error) {
	args := m.Called(ctx, amount)
	return args.Bool(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e domoutbox.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type fixedID string

func (f fixedID) NewID() string { return string(f) }

type counterCall struct {
	key    observability.MetricKey
	labels []observability.Label
}

// testObs records counter calls and spans.
type testObs struct {
	mu       sync.Mutex
	counts   []counterCall
	recorder *tracetest.SpanRecorder
	tp       *sdktrace.TracerProvider
}

func newTestObs() *testObs {
	rec := tracetest.NewSpanRecorder()
	return &testObs{
		recorder: rec,
		tp:       sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)),
	}
}

func (o *testObs) Tracer() observability.Tracer { return o }
func (o *testObs) Logger() observability.Logger { return observability.NopLogger() }
func (o *testObs) Metrics() observability.Metrics {
	return o
}

func (o *testObs) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tp.Tracer("test").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *testObs) Counter(key observability.MetricKey) observability.Counter {
	return &testCounter{obs: o, key: key}
}

func (o *testObs) Histogram(observability.MetricKey) observability.Histogram {
	return observability.NopHistogram()
}

func (o *testObs) calls(key observability.MetricKey) [][]observability.Label {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out [][]observability.Label
	for _, c := range o.counts {
		if c.key == key {
			out = append(out, c.labels)
		}
	}
	return out
}

type testCounter struct {
	obs *testObs
	key observability.MetricKey
}

func (c *testCounter) Add(_ float64, labels ...observability.Label) {
	c.obs.mu.Lock()
	defer c.obs.mu.Unlock()
	c.obs.counts = append(c.obs.counts, counterCall{key: c.key, labels: labels})
}

func (c *testCounter) Bind(labels ...observability.Label) observability.BoundCounter {
	return observability.NopCounter().Bind(labels...)
}
