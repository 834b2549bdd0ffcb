package usecase

import (
	"context"
	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IOrderUseCase exposes order operations.
//
//   - GenerateFromQuote creates the single order of a quote and approves the quote.
//   - MarkBilled zeroes the balance when invoicing happens outside the system.
//   - SetStatus handles the plain status sets (shipped, delivered, ...).

type IOrderUseCase interface {
	GenerateFromQuote(ctx context.Context, quoteID string) (entities.Order, error)
	MarkBilled(ctx context.Context, orderID string) (entities.Order, error)
	SetStatus(ctx context.Context, orderID string, status entities.OrderStatus) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	List(ctx context.Context) ([]entities.Order, error)
}

type OrderUseCase struct {
	quotes interfaces.IQuoteRepository
	orders interfaces.IOrderRepository
	writer interfaces.ILifecycleWriter
	opts   Options
	log    *zap.Logger
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(quotes interfaces.IQuoteRepository, orders interfaces.IOrderRepository, writer interfaces.ILifecycleWriter, opts Options) *OrderUseCase {
	return &OrderUseCase{
		quotes: quotes,
		orders: orders,
		writer: writer,
		opts:   opts,
		log:    opts.logger().Named("order"),
	}
}

func (u *OrderUseCase) GenerateFromQuote(ctx context.Context, quoteID string) (entities.Order, error) {
	quoteID = trimID(quoteID)
	if quoteID == "" {
		return entities.Order{}, ErrInvalidQuoteID
	}
	log := u.log.With(zap.String("quote_id", quoteID))

	quote, err := u.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return entities.Order{}, storeErr("get quote", err)
	}
	if quote.ID == "" {
		return entities.Order{}, ErrQuoteNotFound
	}
	if u.opts.StrictTransitions && quote.Status == entities.QuoteStatusRejected {
		log.Warn("order requested for rejected quote")
		return entities.Order{}, ErrInvalidTransition
	}

	// Enforce: 1 order per quote.
	existing, err := u.orders.ListByQuoteID(ctx, quoteID)
	if err != nil {
		return entities.Order{}, storeErr("list orders by quote", err)
	}
	if len(existing) > 0 {
		log.Info("order already exists for quote", zap.String("order_id", existing[0].ID))
		return entities.Order{}, ErrDuplicateOrderForQuote
	}

	now := u.opts.now()
	order := entities.Order{
		ID:          uuid.NewString(),
		QuoteID:     quote.ID,
		Customer:    entities.Customer{Name: quote.Client.Name, Email: quote.Client.Email},
		Date:        now,
		Amount:      quote.Price,
		Status:      entities.OrderStatusProcessing,
		Outstanding: quote.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	batch := interfaces.LifecycleBatch{NewOrder: &order}
	if quote.Status != entities.QuoteStatusApproved {
		batch.QuoteStatus = &interfaces.QuoteStatusChange{QuoteID: quote.ID, Status: entities.QuoteStatusApproved}
	}

	if err := u.writer.Commit(ctx, batch); err != nil {
		if errors.Is(err, interfaces.ErrQuoteAlreadyOrdered) {
			log.Info("concurrent order generation lost", zap.Error(err))
			return entities.Order{}, ErrDuplicateOrderForQuote
		}
		log.Error("generate order failed", zap.Error(err))
		return entities.Order{}, storeErr("generate order", err)
	}
	log.Info("order generated", zap.String("order_id", order.ID), zap.String("amount", order.Amount.StringFixed(2)))
	return order, nil
}

// MarkBilled settles the whole balance without issuing an invoice. Orders
// with nothing outstanding are returned unchanged.
func (u *OrderUseCase) MarkBilled(ctx context.Context, orderID string) (entities.Order, error) {
	order, err := u.GetByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if order.FullyBilled() {
		return order, nil
	}

	change := interfaces.OrderBalanceChange{
		OrderID:         order.ID,
		ExpectedVersion: order.Version,
		Outstanding:     decimal.Zero,
		Status:          entities.OrderStatusInvoiced,
	}
	if err := u.writer.Commit(ctx, interfaces.LifecycleBatch{OrderBalance: &change}); err != nil {
		if errors.Is(err, interfaces.ErrStaleOrder) {
			return entities.Order{}, ErrConcurrentModification
		}
		u.log.Error("mark order billed failed", zap.String("order_id", order.ID), zap.Error(err))
		return entities.Order{}, storeErr("mark order billed", err)
	}

	order = applyBalance(order, change, u.opts.now())
	u.log.Info("order marked billed", zap.String("order_id", order.ID))
	return order, nil
}

// SetStatus sets one of the plain order statuses. Invoiced is reserved for
// the billing operations because it has to agree with the balance.
func (u *OrderUseCase) SetStatus(ctx context.Context, orderID string, status entities.OrderStatus) (entities.Order, error) {
	orderID = trimID(orderID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	if !status.Valid() || status == entities.OrderStatusInvoiced {
		return entities.Order{}, ErrInvalidStatus
	}

	updated, err := u.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		u.log.Error("update order status failed", zap.String("order_id", orderID), zap.Error(err))
		return entities.Order{}, storeErr("update order status", err)
	}
	if updated.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	u.log.Info("order status updated", zap.String("order_id", orderID), zap.String("status", string(status)))
	return updated, nil
}

func (u *OrderUseCase) GetByID(ctx context.Context, id string) (entities.Order, error) {
	id = trimID(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	o, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, storeErr("get order", err)
	}
	if o.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderUseCase) List(ctx context.Context) ([]entities.Order, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
