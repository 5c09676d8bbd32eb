package payment

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks requests rejected before any circuit is contacted.
var ErrInvalidArgument = errors.New("payment: invalid argument")

var (
	ErrNonPositiveAmount   = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	ErrUnsupportedCurrency = fmt.Errorf("%w: unsupported currency", ErrInvalidArgument)
	ErrEmptyOrder          = fmt.Errorf("%w: order must contain at least one item", ErrInvalidArgument)
	ErrUnknownCircuit      = fmt.Errorf("%w: unknown circuit variant", ErrInvalidArgument)
	ErrCircuitUnbound      = fmt.Errorf("%w: no circuit bound for requested variant", ErrInvalidArgument)
	ErrMalformedAmount     = fmt.Errorf("%w: malformed amount", ErrInvalidArgument)
)
