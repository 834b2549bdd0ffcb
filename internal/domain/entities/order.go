package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusException  OrderStatus = "exception"
	OrderStatusInvoiced   OrderStatus = "invoiced"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusException, OrderStatusInvoiced:
		return true
	}
	return false
}

// Customer is the customer snapshot copied from the originating quote.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is a confirmed commercial commitment, always generated from a quote.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (quote_id-index): quote_id
//
// Balance rules:
//   - Amount is fixed at creation from the quote price.
//   - Outstanding is the part of Amount not yet invoiced, 0 <= Outstanding <= Amount.
//   - Version increases on every balance change and guards concurrent updates.
type Order struct {
	ID          string          `json:"id"`
	QuoteID     string          `json:"quote_id,omitempty"`
	Customer    Customer        `json:"customer"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Status      OrderStatus     `json:"status"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FullyBilled reports whether nothing is left to invoice.
func (o Order) FullyBilled() bool {
	return !o.Outstanding.IsPositive()
}

// ApplyCharge returns the outstanding balance after invoicing amount.
// Overpayment is absorbed by the floor at zero.
func (o Order) ApplyCharge(amount decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, o.Outstanding.Sub(amount))
}

// ApplyRefund returns the outstanding balance after a charge of amount is
// reversed. The result never exceeds the order amount.
func (o Order) ApplyRefund(amount decimal.Decimal) decimal.Decimal {
	return decimal.Min(o.Amount, o.Outstanding.Add(amount))
}
