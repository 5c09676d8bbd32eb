package payment

import (
	"context"

	domoutbox "github.com/Zhima-Mochi/paygate/internal/domain/outbox"
	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/Zhima-Mochi/paygate/internal/observability/logctx"
)

const paymentAuditWorker = "payment_audit_worker"

// Worker audits decided charges published on the outbox bus.
type Worker struct {
	subscriber domoutbox.Subscriber

	log          observability.Logger
	eventCounter observability.Counter // payment_events_total{event,circuit}
}

func NewWorker(subscriber domoutbox.Subscriber, tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		subscriber:   subscriber,
		log:          tel.Logger().With(observability.F("component", paymentAuditWorker)),
		eventCounter: tel.Metrics().Counter(observability.MPaymentEvents),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(dompay.PaymentConfirmedEvent{}.EventName(), w.handleConfirmed)
	w.subscriber.Subscribe(dompay.PaymentDeclinedEvent{}.EventName(), w.handleDeclined)
}

func (w *Worker) handleConfirmed(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(dompay.PaymentConfirmedEvent)
	if !ok {
		return nil
	}

	w.count(evt.EventName(), evt.Circuit)
	_, log := logctx.Enrich(ctx, w.log, observability.F("event", evt.EventName()))
	log.Info("payment_confirmed",
		observability.F("receipt_id", evt.ReceiptID),
		observability.F("circuit", string(evt.Circuit)),
		observability.F("amount", evt.Amount),
		observability.F("currency", evt.Currency),
		observability.F("items", evt.Items),
	)
	return nil
}

func (w *Worker) handleDeclined(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(dompay.PaymentDeclinedEvent)
	if !ok {
		return nil
	}

	w.count(evt.EventName(), evt.Circuit)
	_, log := logctx.Enrich(ctx, w.log, observability.F("event", evt.EventName()))
	log.Warn("payment_declined",
		observability.F("circuit", string(evt.Circuit)),
		observability.F("amount", evt.Amount),
		observability.F("currency", evt.Currency),
	)
	return nil
}

func (w *Worker) count(event string, circuit dompay.Variant) {
	w.eventCounter.Add(1,
		observability.L("event", event),
		observability.L("circuit", string(circuit)),
	)
}
