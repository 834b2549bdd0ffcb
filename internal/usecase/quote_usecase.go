package usecase

import (
	"context"
	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NewQuote carries the data needed to register a quote.
type NewQuote struct {
	Client       entities.ClientSnapshot
	Product      map[string]any
	Price        decimal.Decimal
	DeliveryDate time.Time
}

// IQuoteUseCase exposes quote operations.
//
//   - CreateQuote registers a pending quote.
//   - Approve / Reject / SetStatus decide a quote without touching orders or invoices.

type IQuoteUseCase interface {
	CreateQuote(ctx context.Context, in NewQuote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	List(ctx context.Context) ([]entities.Quote, error)
	Approve(ctx context.Context, id string) (entities.Quote, error)
	Reject(ctx context.Context, id string) (entities.Quote, error)
	SetStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error)
}

type QuoteUseCase struct {
	repo interfaces.IQuoteRepository
	opts Options
	log  *zap.Logger
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository, opts Options) *QuoteUseCase {
	return &QuoteUseCase{repo: repo, opts: opts, log: opts.logger().Named("quote")}
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, in NewQuote) (entities.Quote, error) {
	in.Client.Name = strings.TrimSpace(in.Client.Name)
	in.Client.Email = strings.TrimSpace(in.Client.Email)
	if in.Client.Name == "" {
		return entities.Quote{}, ErrInvalidClient
	}
	price := money(in.Price)
	if !price.IsPositive() {
		return entities.Quote{}, ErrInvalidAmount
	}

	now := u.opts.now()
	q := entities.Quote{
		ID:           uuid.NewString(),
		Client:       in.Client,
		Product:      in.Product,
		Price:        price,
		DeliveryDate: in.DeliveryDate.UTC(),
		Status:       entities.QuoteStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := u.repo.Create(ctx, q)
	if err != nil {
		u.log.Error("create quote failed", zap.String("quote_id", q.ID), zap.Error(err))
		return entities.Quote{}, storeErr("create quote", err)
	}
	u.log.Info("quote created", zap.String("quote_id", created.ID), zap.String("price", created.Price.StringFixed(2)))
	return created, nil
}

func (u *QuoteUseCase) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	id = trimID(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, storeErr("get quote", err)
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) List(ctx context.Context) ([]entities.Quote, error) {
	quotes, err := u.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list quotes", err)
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})
	return quotes, nil
}

func (u *QuoteUseCase) Approve(ctx context.Context, id string) (entities.Quote, error) {
	return u.SetStatus(ctx, id, entities.QuoteStatusApproved)
}

func (u *QuoteUseCase) Reject(ctx context.Context, id string) (entities.Quote, error) {
	return u.SetStatus(ctx, id, entities.QuoteStatusRejected)
}

// SetStatus overwrites the quote status. Without strict transitions any quote
// may be force-set, including one that was already decided.
func (u *QuoteUseCase) SetStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error) {
	id = trimID(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	if status != entities.QuoteStatusApproved && status != entities.QuoteStatusRejected {
		return entities.Quote{}, ErrInvalidStatus
	}

	if u.opts.StrictTransitions {
		current, err := u.GetByID(ctx, id)
		if err != nil {
			return entities.Quote{}, err
		}
		if current.Status != entities.QuoteStatusPending {
			u.log.Warn("quote already decided", zap.String("quote_id", id), zap.String("status", string(current.Status)))
			return entities.Quote{}, ErrInvalidTransition
		}
	}

	updated, err := u.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		u.log.Error("update quote status failed", zap.String("quote_id", id), zap.Error(err))
		return entities.Quote{}, storeErr("update quote status", err)
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	u.log.Info("quote status updated", zap.String("quote_id", id), zap.String("status", string(status)))
	return updated, nil
}
