package response

import (
	"erp_lifecycle/internal/domain/entities"
	"time"
)

type InvoiceResponse struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	AccessKey     string    `json:"access_key,omitempty"`
	OrderID       string    `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	IssueDate     time.Time `json:"issue_date"`
	Status        string    `json:"status"`
	Total         string    `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromInvoice(inv entities.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		AccessKey:     inv.AccessKey,
		OrderID:       inv.OrderID,
		CustomerName:  inv.CustomerName,
		IssueDate:     inv.IssueDate,
		Status:        string(inv.Status),
		Total:         inv.Total.StringFixed(2),
		CreatedAt:     inv.CreatedAt,
	}
}

func FromInvoices(invs []entities.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, FromInvoice(inv))
	}
	return out
}
