package payment

import (
	"context"
	"reflect"
)

// Confirmation is the receipt produced when a circuit accepts a charge.
type Confirmation struct {
	Amount  Amount
	Circuit Variant
	Items   int
}

// Gateway validates charge requests and dispatches them to the circuit bound
// for the requested variant. Bindings are fixed at construction, so a Gateway
// is safe for concurrent use as long as its circuits are.
type Gateway struct {
	circuits map[Variant]Circuit
}

// NewGateway binds one circuit per variant. Nil circuits, including typed nil
// pointers, and unknown variants are left unbound; requests targeting them fail
// with ErrCircuitUnbound.
func NewGateway(circuits map[Variant]Circuit) *Gateway {
	bound := make(map[Variant]Circuit, len(circuits))
	for v, c := range circuits {
		if isNilCircuit(c) || !v.Valid() {
			continue
		}
		bound[v] = c
	}
	return &Gateway{circuits: bound}
}

// Bound reports whether a circuit is configured for v.
func (g *Gateway) Bound(v Variant) bool {
	_, ok := g.circuits[v]
	return ok
}

// Pay charges amount through the circuit bound to variant.
//
// The boolean is false when the circuit declined the charge; a decline is not an
// error. Validation failures wrap ErrInvalidArgument and never reach a circuit.
// Errors returned by the circuit are passed back unchanged.
func (g *Gateway) Pay(ctx context.Context, amount Amount, order Order, variant Variant) (Confirmation, bool, error) {
	circuit, err := g.resolve(amount, order, variant)
	if err != nil {
		return Confirmation{}, false, err
	}

	ok, err := circuit.Pay(ctx, amount)
	if err != nil {
		return Confirmation{}, false, err
	}
	if !ok {
		return Confirmation{}, false, nil
	}

	return Confirmation{
		Amount:  amount,
		Circuit: variant,
		Items:   order.Len(),
	}, true, nil
}

// resolve applies the checks in order; the first violation wins.
func (g *Gateway) resolve(amount Amount, order Order, variant Variant) (Circuit, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if amount.Currency() != CurrencyEUR {
		return nil, ErrUnsupportedCurrency
	}
	if order.IsEmpty() {
		return nil, ErrEmptyOrder
	}
	if !variant.Valid() {
		return nil, ErrUnknownCircuit
	}
	circuit, ok := g.circuits[variant]
	if !ok {
		return nil, ErrCircuitUnbound
	}
	return circuit, nil
}

func isNilCircuit(c Circuit) bool {
	if c == nil {
		return true
	}
	rv := reflect.ValueOf(c)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
