package circuit

import (
	"context"
	"time"

	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/Zhima-Mochi/paygate/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	endpointPay = "pay"
	spanPrefix  = "Circuit."
)

// Instrumented decorates a circuit with a client span and external_requests_*
// metrics. Results and errors are returned untouched.
type Instrumented struct {
	next    dompay.Circuit
	variant dompay.Variant
	tracer  observability.Tracer
	log     observability.Logger

	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

func Instrument(next dompay.Circuit, variant dompay.Variant, tel observability.Observability) *Instrumented {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()
	return &Instrumented{
		next:         next,
		variant:      variant,
		tracer:       tel.Tracer(),
		log:          tel.Logger().With(observability.F("component", "circuit"), observability.F("circuit", string(variant))),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

func (c *Instrumented) Pay(ctx context.Context, amount dompay.Amount) (bool, error) {
	ctx, span := c.tracer.Start(ctx, spanPrefix+"Pay",
		attribute.String("payment.circuit", string(c.variant)),
		attribute.String("payment.amount", amount.Value().String()),
		attribute.String("payment.currency", amount.Currency()),
	)
	start := time.Now()

	ok, err := c.next.Pay(ctx, amount)

	outcome := "approved"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logctx.FromOr(ctx, c.log).Warn("circuit_call_failed", observability.Err(err))
	case !ok:
		outcome = "declined"
		span.SetStatus(codes.Ok, "DECLINED")
	default:
		span.SetStatus(codes.Ok, "OK")
	}
	span.SetAttributes(attribute.String("payment.outcome", outcome))
	span.End()

	c.extCounter.Add(1,
		observability.L("peer", string(c.variant)),
		observability.L("endpoint", endpointPay),
		observability.L("outcome", outcome),
	)
	c.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", string(c.variant)),
		observability.L("endpoint", endpointPay),
	)

	return ok, err
}
