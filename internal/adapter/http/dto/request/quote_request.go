package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClientRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// QuoteCreateRequest is the payload for registering a quote. Product carries
// the configured model, dimensions and options as-is.
type QuoteCreateRequest struct {
	Client       ClientRequest   `json:"client" binding:"required"`
	Product      map[string]any  `json:"product"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDate *time.Time      `json:"delivery_date"`
}

func (r QuoteCreateRequest) ResolveDeliveryDate() time.Time {
	if r.DeliveryDate == nil {
		return time.Time{}
	}
	return *r.DeliveryDate
}
