package payment

import (
	"context"
	"fmt"
	"strings"
)

// Variant identifies a payment backend.
type Variant string

const (
	VariantPayPal     Variant = "paypal"
	VariantCreditCard Variant = "credit_card"
)

// Variants lists every known variant in a stable order.
func Variants() []Variant {
	return []Variant{VariantPayPal, VariantCreditCard}
}

func (v Variant) Valid() bool {
	switch v {
	case VariantPayPal, VariantCreditCard:
		return true
	default:
		return false
	}
}

func (v Variant) String() string { return string(v) }

// ParseVariant accepts the canonical names case-insensitively.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCircuit, s)
	}
	return v, nil
}

// Circuit is an outbound port to a payment backend.
// Pay reports true iff the backend confirmed the charge; an error is a backend fault.
// Implementations must be safe for concurrent use.
type Circuit interface {
	Pay(ctx context.Context, amount Amount) (bool, error)
}
