package response

import (
	"erp_lifecycle/internal/domain/entities"
	"time"
)

type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type OrderResponse struct {
	ID          string           `json:"id"`
	QuoteID     string           `json:"quote_id,omitempty"`
	Customer    CustomerResponse `json:"customer"`
	Date        time.Time        `json:"date"`
	Amount      string           `json:"amount"`
	Outstanding string           `json:"outstanding"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		QuoteID:     o.QuoteID,
		Customer:    CustomerResponse{Name: o.Customer.Name, Email: o.Customer.Email},
		Date:        o.Date,
		Amount:      o.Amount.StringFixed(2),
		Outstanding: o.Outstanding.StringFixed(2),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func FromOrders(orders []entities.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
