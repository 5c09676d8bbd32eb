package payment

import (
	"context"
	"errors"
	"time"

	"github.com/Zhima-Mochi/paygate/internal/application"
	domoutbox "github.com/Zhima-Mochi/paygate/internal/domain/outbox"
	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/Zhima-Mochi/paygate/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	paymentService = "payment-service"
	useCasePay     = "payment.pay"
	paySpanName    = "Pay"
	spanPrefix     = "UC."
	publishTimeout = 300 * time.Millisecond
)

type PayInput struct {
	Amount  dompay.Amount
	Order   dompay.Order
	Circuit dompay.Variant
}

// Receipt is handed back to callers for a confirmed charge.
type Receipt struct {
	ID           string
	Confirmation dompay.Confirmation
	ConfirmedAt  time.Time
}

type PayResult struct {
	Status dompay.Status
	// Receipt is nil when the charge was declined.
	Receipt *Receipt
}

func (r *PayResult) Confirmed() bool {
	return r != nil && r.Status == dompay.StatusConfirmed && r.Receipt != nil
}

var _ application.UseCase[PayInput, *PayResult] = (*PayUseCase)(nil)

// PayUseCase runs Gateway.Pay with tracing, RED metrics, a single summary log
// line, and confirmed/declined event publication.
type PayUseCase struct {
	gateway     Gateway
	idGenerator IDGenerator
	publisher   domoutbox.Publisher
	now         Clock
	tracer      observability.Tracer

	log        observability.Logger
	reqCounter observability.Counter   // usecase_requests_total{use_case,outcome}
	durHist    observability.Histogram // usecase_duration_seconds{use_case}
}

type PayOption func(*PayUseCase)

// WithPublisher enables event publication after each decided charge.
func WithPublisher(p domoutbox.Publisher) PayOption {
	return func(uc *PayUseCase) { uc.publisher = p }
}

func WithClock(now Clock) PayOption {
	return func(uc *PayUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewPayUseCase(gateway Gateway, idGen IDGenerator, tel observability.Observability, opts ...PayOption) *PayUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	if idGen == nil {
		idGen = uuidGenerator{}
	}
	metricsProvider := tel.Metrics()

	uc := &PayUseCase{
		gateway:     gateway,
		idGenerator: idGen,
		now:         time.Now,
		tracer:      tel.Tracer(),
		log: tel.Logger().With(
			observability.F("service", paymentService),
		),
		reqCounter: metricsProvider.Counter(observability.MUsecaseRequests),
		durHist:    metricsProvider.Histogram(observability.MUsecaseDuration),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute validates and dispatches the charge. Validation errors wrap
// dompay.ErrInvalidArgument; circuit faults are returned exactly as raised.
func (uc *PayUseCase) Execute(ctx context.Context, cmd PayInput) (_ *PayResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCasePay),
		observability.F("circuit", string(cmd.Circuit)),
		observability.F("amount", cmd.Amount.Value().String()),
		observability.F("currency", cmd.Amount.Currency()),
		observability.F("items", cmd.Order.Len()),
	)

	ctx, span := uc.tracer.Start(ctx, spanPrefix+paySpanName,
		attribute.String("use_case", useCasePay),
		attribute.String("payment.circuit", string(cmd.Circuit)),
		attribute.String("payment.amount", cmd.Amount.Value().String()),
		attribute.String("payment.currency", cmd.Amount.Currency()),
		attribute.Int("order.items", cmd.Order.Len()),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var result *PayResult
	var publishErr error

	defer func() {
		if span != nil {
			if result != nil {
				span.SetAttributes(attribute.String("payment.status", string(result.Status)))
			}
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		latency := time.Since(start).Seconds()
		uc.reqCounter.Add(1,
			observability.L("use_case", useCasePay),
			observability.L("outcome", outcome),
		)
		uc.durHist.Observe(latency,
			observability.L("use_case", useCasePay),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", latency),
		}
		fields = append(fields, observability.TraceFields(ctx)...)
		if result != nil && result.Receipt != nil {
			fields = append(fields, observability.F("receipt_id", result.Receipt.ID))
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.Err(err))
		}
		logger.Info("use_case_done", fields...)
	}()

	conf, ok, err := uc.gateway.Pay(ctx, cmd.Amount, cmd.Order, cmd.Circuit)
	if err != nil {
		if errors.Is(err, dompay.ErrInvalidArgument) {
			outcome, statusText = "invalid", invalidStatus(err)
		} else {
			outcome, statusText = "error", "CIRCUIT_FAULT"
		}
		return nil, err
	}

	if !ok {
		outcome, statusText = "declined", "DECLINED"
		result = &PayResult{Status: dompay.StatusDeclined}
		publishErr = uc.publish(ctx, dompay.NewPaymentDeclinedEvent(cmd.Circuit, cmd.Amount, uc.now()))
		return result, nil
	}

	receipt := &Receipt{
		ID:           uc.idGenerator.NewID(),
		Confirmation: conf,
		ConfirmedAt:  uc.now().UTC(),
	}
	result = &PayResult{Status: dompay.StatusConfirmed, Receipt: receipt}
	span.AddEvent("payment.confirmed",
		trace.WithAttributes(attribute.String("payment.receipt_id", receipt.ID)),
	)
	publishErr = uc.publish(ctx, dompay.NewPaymentConfirmedEvent(receipt.ID, conf, receipt.ConfirmedAt))
	return result, nil
}

// publish never affects the charge result; failures are only reported.
func (uc *PayUseCase) publish(ctx context.Context, e domoutbox.Event) error {
	if uc.publisher == nil {
		return nil
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	return uc.publisher.Publish(pubCtx, e)
}

func invalidStatus(err error) string {
	switch {
	case errors.Is(err, dompay.ErrNonPositiveAmount):
		return "AMOUNT_INVALID"
	case errors.Is(err, dompay.ErrUnsupportedCurrency):
		return "CURRENCY_UNSUPPORTED"
	case errors.Is(err, dompay.ErrEmptyOrder):
		return "ORDER_EMPTY"
	case errors.Is(err, dompay.ErrUnknownCircuit):
		return "CIRCUIT_UNKNOWN"
	case errors.Is(err, dompay.ErrCircuitUnbound):
		return "CIRCUIT_UNBOUND"
	default:
		return "INVALID_ARGUMENT"
	}
}
