package request

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceCreateRequest is the payload for invoicing an order. The order comes
// from the path.
type InvoiceCreateRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required"`
	AccessKey     string          `json:"access_key"`
	IssueDate     *time.Time      `json:"issue_date"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

func (r InvoiceCreateRequest) ResolveIssueDate() time.Time {
	if r.IssueDate == nil {
		return time.Time{}
	}
	return *r.IssueDate
}

func (r InvoiceCreateRequest) ResolveStatus() string {
	return strings.ToLower(strings.TrimSpace(r.Status))
}
