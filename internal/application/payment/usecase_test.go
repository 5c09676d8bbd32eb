package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func validInput(variant dompay.Variant) PayInput {
	return PayInput{
		Amount:  dompay.NewAmount(decimal.NewFromInt(1), dompay.CurrencyEUR),
		Order:   dompay.NewOrder(dompay.OrderItem{ID: "1", Quantity: 1}),
		Circuit: variant,
	}
}

func TestPayUseCase_Confirmed(t *testing.T) {
	paypal := new(mockCircuit)
	paypal.On("Pay", mock.Anything, mock.Anything).Return(true, nil).Once()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e dompay.PaymentConfirmedEvent) bool {
		return e.ReceiptID == "rcpt-1" && e.Circuit == dompay.VariantPayPal && e.Amount == "1" && e.Currency == "EUR"
	})).Return(nil).Once()
	obs := newTestObs()

	uc := NewPayUseCase(
		dompay.NewGateway(map[dompay.Variant]dompay.Circuit{dompay.VariantPayPal: paypal}),
		fixedID("rcpt-1"),
		obs,
		WithPublisher(pub),
		WithClock(func() time.Time { return fixedNow }),
	)

	res, err := uc.Execute(context.Background(), validInput(dompay.VariantPayPal))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Confirmed())
	assert.Equal(t, dompay.StatusConfirmed, res.Status)
	assert.Equal(t, "rcpt-1", res.Receipt.ID)
	assert.Equal(t, fixedNow, res.Receipt.ConfirmedAt)
	assert.Equal(t, dompay.VariantPayPal, res.Receipt.Confirmation.Circuit)

	paypal.AssertExpectations(t)
	pub.AssertExpectations(t)
	assert.Equal(t, [][]observability.Label{{
		observability.L("use_case", "payment.pay"),
		observability.L("outcome", "success"),
	}}, obs.calls(observability.MUsecaseRequests))

	spans := obs.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "UC.Pay", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestPayUseCase_Declined(t *testing.T) {
	credit := new(mockCircuit)
	credit.On("Pay", mock.Anything, mock.Anything).Return(false, nil).Once()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.AnythingOfType("payment.PaymentDeclinedEvent")).Return(nil).Once()
	obs := newTestObs()

	uc := NewPayUseCase(
		dompay.NewGateway(map[dompay.Variant]dompay.Circuit{dompay.VariantCreditCard: credit}),
		fixedID("unused"),
		obs,
		WithPublisher(pub),
	)

	res, err := uc.Execute(context.Background(), validInput(dompay.VariantCreditCard))
	require.NoError(t, err)
	assert.False(t, res.Confirmed())
	assert.Equal(t, dompay.StatusDeclined, res.Status)
	assert.Nil(t, res.Receipt)
	pub.AssertExpectations(t)
	assert.Equal(t, "declined", obs.calls(observability.MUsecaseRequests)[0][1].Value)
}

func TestPayUseCase_InvalidArgument(t *testing.T) {
	paypal := new(mockCircuit)
	pub := new(mockPublisher)
	obs := newTestObs()
	uc := NewPayUseCase(
		dompay.NewGateway(map[dompay.Variant]dompay.Circuit{dompay.VariantPayPal: paypal}),
		fixedID("unused"),
		obs,
		WithPublisher(pub),
	)

	in := validInput(dompay.VariantPayPal)
	in.Amount = dompay.NewAmount(decimal.Zero, dompay.CurrencyEUR)

	res, err := uc.Execute(context.Background(), in)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dompay.ErrNonPositiveAmount)
	paypal.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.Equal(t, "invalid", obs.calls(observability.MUsecaseRequests)[0][1].Value)

	spans := obs.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "AMOUNT_INVALID", spans[0].Status().Description)
}

func TestPayUseCase_CircuitFaultUnchanged(t *testing.T) {
	fault := errors.New("paypal: 503")
	paypal := new(mockCircuit)
	paypal.On("Pay", mock.Anything, mock.Anything).Return(false, fault).Once()
	obs := newTestObs()

	uc := NewPayUseCase(
		dompay.NewGateway(map[dompay.Variant]dompay.Circuit{dompay.VariantPayPal: paypal}),
		fixedID("unused"),
		obs,
	)

	res, err := uc.Execute(context.Background(), validInput(dompay.VariantPayPal))
	assert.Nil(t, res)
	assert.Same(t, fault, err)
	assert.Equal(t, "error", obs.calls(observability.MUsecaseRequests)[0][1].Value)
}

func TestPayUseCase_PublishFailureKeepsResult(t *testing.T) {
	paypal := new(mockCircuit)
	paypal.On("Pay", mock.Anything, mock.Anything).Return(true, nil).Once()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus full")).Once()

	uc := NewPayUseCase(
		dompay.NewGateway(map[dompay.Variant]dompay.Circuit{dompay.VariantPayPal: paypal}),
		fixedID("rcpt-2"),
		nil,
		WithPublisher(pub),
	)

	res, err := uc.Execute(context.Background(), validInput(dompay.VariantPayPal))
	require.NoError(t, err)
	assert.True(t, res.Confirmed())
	assert.Equal(t, "rcpt-2", res.Receipt.ID)
}

func TestPayUseCase_NilIDGeneratorFallsBackToUUID(t *testing.T) {
	paypal := new(mockCircuit)
	paypal.On("Pay", mock.Anything, mock.Anything).Return(true, nil).Twice()

	uc := NewPayUseCase(
		dompay.NewGateway(map[dompay.Variant]dompay.Circuit{dompay.VariantPayPal: paypal}),
		nil,
		nil,
	)

	var first string
	for i := 0; i < 2; i++ {
		var res *PayResult
		var err error
		require.NotPanics(t, func() {
			res, err = uc.Execute(context.Background(), validInput(dompay.VariantPayPal))
		})
		require.NoError(t, err)
		require.True(t, res.Confirmed())

		_, perr := uuid.Parse(res.Receipt.ID)
		require.NoError(t, perr)
		if i == 0 {
			first = res.Receipt.ID
		} else {
			assert.NotEqual(t, first, res.Receipt.ID)
		}
	}
	paypal.AssertExpectations(t)
}

func TestInvalidStatus(t *testing.T) {
	assert.Equal(t, "CURRENCY_UNSUPPORTED", invalidStatus(dompay.ErrUnsupportedCurrency))
	assert.Equal(t, "ORDER_EMPTY", invalidStatus(dompay.ErrEmptyOrder))
	assert.Equal(t, "CIRCUIT_UNKNOWN", invalidStatus(dompay.ErrUnknownCircuit))
	assert.Equal(t, "CIRCUIT_UNBOUND", invalidStatus(dompay.ErrCircuitUnbound))
	assert.Equal(t, "INVALID_ARGUMENT", invalidStatus(dompay.ErrMalformedAmount))
}
