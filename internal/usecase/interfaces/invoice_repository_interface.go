package interfaces

import (
	"context"
	"erp_lifecycle/internal/domain/entities"
)

// IInvoiceRepository abstracts read access to Invoice. All invoice writes go
// through ILifecycleWriter because each one also touches an order.

type IInvoiceRepository interface {
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context) ([]entities.Invoice, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error)
	ListByInvoiceNumber(ctx context.Context, invoiceNumber string) ([]entities.Invoice, error)
	ListByAccessKey(ctx context.Context, accessKey string) ([]entities.Invoice, error)
}
