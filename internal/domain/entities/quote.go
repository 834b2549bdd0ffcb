package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle of a quote (orçamento).
//
// Domain notes:
//   - A quote is created pending and is decided once (approved or rejected).
//   - Generating an order from a quote implies approval.

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusApproved, QuoteStatusRejected:
		return true
	}
	return false
}

// ClientSnapshot is the client data copied onto a quote when it is created.
// It is never re-synced with the client record.
type ClientSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Quote is a priced proposal awaiting the client's decision.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Product holds the configured model, dimensions and options. The lifecycle
// never inspects it.
type Quote struct {
	ID           string          `json:"id"`
	Client       ClientSnapshot  `json:"client"`
	Product      map[string]any  `json:"product,omitempty"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDate time.Time       `json:"delivery_date"`
	Status       QuoteStatus     `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
