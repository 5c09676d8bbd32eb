package payment

import "time"

// PaymentConfirmedEvent is emitted after a circuit accepted a charge.
type PaymentConfirmedEvent struct {
	ReceiptID  string
	Circuit    Variant
	Amount     string
	Currency   string
	Items      int
	OccurredAt time.Time
}

func (PaymentConfirmedEvent) EventName() string { return "payment.confirmed" }

func NewPaymentConfirmedEvent(receiptID string, c Confirmation, at time.Time) PaymentConfirmedEvent {
	return PaymentConfirmedEvent{
		ReceiptID:  receiptID,
		Circuit:    c.Circuit,
		Amount:     c.Amount.Value().String(),
		Currency:   c.Amount.Currency(),
		Items:      c.Items,
		OccurredAt: at.UTC(),
	}
}

// PaymentDeclinedEvent is emitted when a circuit refused a charge.
type PaymentDeclinedEvent struct {
	Circuit    Variant
	Amount     string
	Currency   string
	OccurredAt time.Time
}

func (PaymentDeclinedEvent) EventName() string { return "payment.declined" }

func NewPaymentDeclinedEvent(variant Variant, amount Amount, at time.Time) PaymentDeclinedEvent {
	return PaymentDeclinedEvent{
		Circuit:    variant,
		Amount:     amount.Value().String(),
		Currency:   amount.Currency(),
		OccurredAt: at.UTC(),
	}
}
