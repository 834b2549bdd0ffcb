package response

import (
	"erp_lifecycle/internal/domain/entities"
	"time"
)

type ClientResponse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type QuoteResponse struct {
	ID           string         `json:"id"`
	Client       ClientResponse `json:"client"`
	Product      map[string]any `json:"product,omitempty"`
	Price        string         `json:"price"`
	DeliveryDate *time.Time     `json:"delivery_date,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	res := QuoteResponse{
		ID:        q.ID,
		Client:    ClientResponse{ID: q.Client.ID, Name: q.Client.Name, Email: q.Client.Email},
		Product:   q.Product,
		Price:     q.Price.StringFixed(2),
		Status:    string(q.Status),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
	if !q.DeliveryDate.IsZero() {
		d := q.DeliveryDate
		res.DeliveryDate = &d
	}
	return res
}

func FromQuotes(qs []entities.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FromQuote(q))
	}
	return out
}
