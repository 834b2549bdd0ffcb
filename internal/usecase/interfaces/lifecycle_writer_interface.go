package interfaces

import (
	"context"
	"erp_lifecycle/internal/domain/entities"
	"errors"

	"github.com/shopspring/decimal"
)

// Errors reported by ILifecycleWriter when a batch is refused by the store.
// Nothing from the batch is persisted when any of them is returned.
var (
	ErrQuoteAlreadyOrdered = errors.New("quote already has an order")
	ErrInvoiceNumberTaken  = errors.New("invoice number already in use")
	ErrAccessKeyTaken      = errors.New("access key already in use")
	ErrStaleOrder          = errors.New("order changed since it was read")
	ErrStaleInvoice        = errors.New("invoice changed since it was read")
	ErrMissingBatchTarget  = errors.New("batch target does not exist")
)

// QuoteStatusChange sets a quote's status.
type QuoteStatusChange struct {
	QuoteID string
	Status  entities.QuoteStatus
}

// OrderBalanceChange rewrites an order's balance. It only applies when the
// stored order still has ExpectedVersion; the version is then incremented.
type OrderBalanceChange struct {
	OrderID         string
	ExpectedVersion int64
	Outstanding     decimal.Decimal
	Status          entities.OrderStatus
}

// InvoiceStatusChange moves an invoice from one status to another. It only
// applies when the stored status is still From.
type InvoiceStatusChange struct {
	InvoiceID string
	From      entities.InvoiceStatus
	To        entities.InvoiceStatus
}

// LifecycleBatch is a set of writes applied as one all-or-nothing unit.
//
// Inserting an order with a QuoteID also claims that quote, and inserting an
// invoice claims its invoice number and access key. A second claim fails the
// whole batch.
type LifecycleBatch struct {
	NewOrder      *entities.Order
	QuoteStatus   *QuoteStatusChange
	NewInvoice    *entities.Invoice
	OrderBalance  *OrderBalanceChange
	InvoiceStatus *InvoiceStatusChange
}

func (b LifecycleBatch) Empty() bool {
	return b.NewOrder == nil && b.QuoteStatus == nil && b.NewInvoice == nil &&
		b.OrderBalance == nil && b.InvoiceStatus == nil
}

// ILifecycleWriter applies cross-record lifecycle writes atomically.
type ILifecycleWriter interface {
	Commit(ctx context.Context, batch LifecycleBatch) error
}
