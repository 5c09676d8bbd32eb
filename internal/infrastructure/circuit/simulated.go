package circuit

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
)

// ErrUnavailable is the fault a simulated circuit raises when its fault roll hits.
var ErrUnavailable = errors.New("circuit: backend unavailable")

// Simulated stands in for a real payment backend. It approves charges with a
// configurable probability and can inject faults and latency.
type Simulated struct {
	variant dompay.Variant

	mu          sync.Mutex
	random      *rand.Rand
	successRate float64
	faultRate   float64
	latency     time.Duration
}

type Option func(*Simulated)

func WithFaultRate(rate float64) Option {
	return func(s *Simulated) { s.faultRate = clamp(rate) }
}

func WithLatency(d time.Duration) Option {
	return func(s *Simulated) { s.latency = d }
}

// WithSeed makes the outcome sequence reproducible.
func WithSeed(seed int64) Option {
	return func(s *Simulated) { s.random = rand.New(rand.NewSource(seed)) }
}

func NewSimulated(variant dompay.Variant, successRate float64, opts ...Option) *Simulated {
	s := &Simulated{
		variant:     variant,
		random:      rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate: clamp(successRate),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewPayPal(successRate float64, opts ...Option) *Simulated {
	return NewSimulated(dompay.VariantPayPal, successRate, opts...)
}

func NewCreditCard(successRate float64, opts ...Option) *Simulated {
	return NewSimulated(dompay.VariantCreditCard, successRate, opts...)
}

func (s *Simulated) Variant() dompay.Variant { return s.variant }

// Pay rolls the configured fault and success probabilities.
func (s *Simulated) Pay(ctx context.Context, amount dompay.Amount) (bool, error) {
	_ = amount

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	// respect cancellation even though this is mocked
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.faultRate > 0 && s.random.Float64() < s.faultRate {
		return false, ErrUnavailable
	}
	return s.random.Float64() < s.successRate, nil
}

// SetSuccessRate adjusts the approval probability (primarily for tests).
func (s *Simulated) SetSuccessRate(rate float64) {
	s.mu.Lock()
	s.successRate = clamp(rate)
	s.mu.Unlock()
}

func (s *Simulated) SuccessRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.successRate
}

func clamp(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
