package interfaces

import (
	"context"
	"erp_lifecycle/internal/domain/entities"
)

// IOrderRepository abstracts persistence for Order.
//
// Orders are never created through this repository: they are inserted by
// ILifecycleWriter together with the quote approval.

type IOrderRepository interface {
	GetByID(ctx context.Context, id string) (entities.Order, error)
	List(ctx context.Context) ([]entities.Order, error)
	ListByQuoteID(ctx context.Context, quoteID string) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) (entities.Order, error)
}
