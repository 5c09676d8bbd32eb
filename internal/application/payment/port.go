package payment

import (
	"context"
	"time"

	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/google/uuid"
)

// Gateway is the outbound port to the validation and dispatch core.
type Gateway interface {
	Pay(ctx context.Context, amount dompay.Amount, order dompay.Order, variant dompay.Variant) (dompay.Confirmation, bool, error)
}

type IDGenerator interface {
	NewID() string
}

// uuidGenerator backs a use case built without an IDGenerator.
type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// Clock lets tests pin receipt timestamps.
type Clock func() time.Time
