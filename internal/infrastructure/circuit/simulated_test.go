package circuit

import (
	"context"
	"testing"
	"time"

	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenEUR = dompay.NewAmount(decimal.NewFromInt(10), dompay.CurrencyEUR)

func TestSimulated_Pay(t *testing.T) {
	tests := []struct {
		name    string
		circuit *Simulated
		want    bool
		wantErr error
	}{
		{name: "always approves", circuit: NewPayPal(1), want: true},
		{name: "always declines", circuit: NewCreditCard(0), want: false},
		{name: "always faults", circuit: NewPayPal(1, WithFaultRate(1)), wantErr: ErrUnavailable},
		{name: "rate clamped above one", circuit: NewCreditCard(7), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				got, err := tt.circuit.Pay(context.Background(), tenEUR)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.False(t, got)
					continue
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSimulated_Variant(t *testing.T) {
	assert.Equal(t, dompay.VariantPayPal, NewPayPal(1).Variant())
	assert.Equal(t, dompay.VariantCreditCard, NewCreditCard(1).Variant())
}

func TestSimulated_SeededIsReproducible(t *testing.T) {
	a := NewPayPal(0.5, WithSeed(42))
	b := NewPayPal(0.5, WithSeed(42))

	for i := 0; i < 32; i++ {
		ra, errA := a.Pay(context.Background(), tenEUR)
		rb, errB := b.Pay(context.Background(), tenEUR)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, ra, rb)
	}
}

func TestSimulated_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := NewPayPal(1).Pay(ctx, tenEUR)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)

	slow := NewCreditCard(1, WithLatency(time.Second))
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ok, err = slow.Pay(ctx, tenEUR)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ok)
}

func TestSimulated_SetSuccessRate(t *testing.T) {
	s := NewPayPal(0.3)
	s.SetSuccessRate(-1)
	assert.Equal(t, 0.0, s.SuccessRate())
	s.SetSuccessRate(0.8)
	assert.Equal(t, 0.8, s.SuccessRate())
}
