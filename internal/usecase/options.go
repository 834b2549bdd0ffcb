package usecase

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Options configures the lifecycle use cases.
//
// StrictTransitions rejects status overwrites the lenient default allows:
//   - approving or rejecting a quote that is no longer pending;
//   - generating an order from a rejected quote;
//   - moving a non-invoiced order back to processing when an invoice is cancelled.
type Options struct {
	StrictTransitions bool
	Clock             func() time.Time
	Logger            *zap.Logger
}

func (o Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock().UTC()
	}
	return time.Now().UTC()
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// money rounds to cents; every amount is in the same implied currency.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func trimID(id string) string {
	return strings.TrimSpace(id)
}
