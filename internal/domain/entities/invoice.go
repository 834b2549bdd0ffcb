package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccessKeyLength is the fixed length of a fiscal invoice access key.
const AccessKeyLength = 44

type InvoiceStatus string

const (
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusPending, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a fiscal billing record referencing exactly one order.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (invoice_number-index): invoice_number
//   - GSI2 (access_key-index): access_key (sparse, only set when present)
//   - order_id-index: order_id
//
// InvoiceNumber and AccessKey are unique among all invoices.
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	AccessKey     string          `json:"access_key,omitempty"`
	OrderID       string          `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	IssueDate     time.Time       `json:"issue_date"`
	Status        InvoiceStatus   `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}
