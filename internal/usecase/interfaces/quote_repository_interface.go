package interfaces

import (
	"context"
	"erp_lifecycle/internal/domain/entities"
)

// IQuoteRepository abstracts persistence for Quote.
//
// Lookups return a zero Quote (empty ID) and a nil error when nothing matches.

type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	List(ctx context.Context) ([]entities.Quote, error)
	UpdateStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error)
}
