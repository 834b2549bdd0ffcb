package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"
	mock_interfaces "erp_lifecycle/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type orderDeps struct {
	quotes *mock_interfaces.MockIQuoteRepository
	orders *mock_interfaces.MockIOrderRepository
	writer *mock_interfaces.MockILifecycleWriter
}

func newOrderUseCase(t *testing.T, opts Options) (*OrderUseCase, orderDeps) {
	ctrl := gomock.NewController(t)
	d := orderDeps{
		quotes: mock_interfaces.NewMockIQuoteRepository(ctrl),
		orders: mock_interfaces.NewMockIOrderRepository(ctrl),
		writer: mock_interfaces.NewMockILifecycleWriter(ctrl),
	}
	return NewOrderUseCase(d.quotes, d.orders, d.writer, opts), d
}

func pendingQuote() entities.Quote {
	return entities.Quote{
		ID:     "q-1",
		Client: entities.ClientSnapshot{Name: "ACME", Email: "buyer@acme.test"},
		Price:  decimal.RequireFromString("1250.00"),
		Status: entities.QuoteStatusPending,
	}
}

func TestOrderUseCase_GenerateFromQuote(t *testing.T) {
	t.Run("invalid quote id", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil, nil, Options{})
		_, err := uc.GenerateFromQuote(context.Background(), " ")
		if !errors.Is(err, ErrInvalidQuoteID) {
			t.Fatalf("expected ErrInvalidQuoteID, got %v", err)
		}
	})

	t.Run("quote not found", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{}, nil)

		_, err := uc.GenerateFromQuote(context.Background(), "q-1")
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("quote lookup error", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{}, errors.New("db"))

		_, err := uc.GenerateFromQuote(context.Background(), "q-1")
		if !errors.Is(err, ErrStoreFailure) {
			t.Fatalf("expected ErrStoreFailure, got %v", err)
		}
	})

	t.Run("order already exists", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(pendingQuote(), nil)
		d.orders.EXPECT().ListByQuoteID(gomock.Any(), "q-1").Return([]entities.Order{{ID: "o-1", QuoteID: "q-1"}}, nil)

		_, err := uc.GenerateFromQuote(context.Background(), "q-1")
		if !errors.Is(err, ErrDuplicateOrderForQuote) {
			t.Fatalf("expected ErrDuplicateOrderForQuote, got %v", err)
		}
	})

	t.Run("strict refuses rejected quote", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{StrictTransitions: true})
		q := pendingQuote()
		q.Status = entities.QuoteStatusRejected
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(q, nil)

		_, err := uc.GenerateFromQuote(context.Background(), "q-1")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("lost race on commit", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(pendingQuote(), nil)
		d.orders.EXPECT().ListByQuoteID(gomock.Any(), "q-1").Return(nil, nil)
		d.writer.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(fmt.Errorf("transaction cancelled: %w", interfaces.ErrQuoteAlreadyOrdered))

		_, err := uc.GenerateFromQuote(context.Background(), "q-1")
		if !errors.Is(err, ErrDuplicateOrderForQuote) {
			t.Fatalf("expected ErrDuplicateOrderForQuote, got %v", err)
		}
	})

	t.Run("commit error", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(pendingQuote(), nil)
		d.orders.EXPECT().ListByQuoteID(gomock.Any(), "q-1").Return(nil, nil)
		d.writer.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(errors.New("throttled"))

		_, err := uc.GenerateFromQuote(context.Background(), "q-1")
		if !errors.Is(err, ErrStoreFailure) {
			t.Fatalf("expected ErrStoreFailure, got %v", err)
		}
	})

	t.Run("creates order and approves quote in one batch", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{Clock: fixedClock})
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(pendingQuote(), nil)
		d.orders.EXPECT().ListByQuoteID(gomock.Any(), "q-1").Return(nil, nil)
		d.writer.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b interfaces.LifecycleBatch) error {
				if b.NewOrder == nil || b.QuoteStatus == nil {
					t.Fatalf("expected order and quote status in batch: %+v", b)
				}
				if b.QuoteStatus.QuoteID != "q-1" || b.QuoteStatus.Status != entities.QuoteStatusApproved {
					t.Fatalf("unexpected quote change: %+v", b.QuoteStatus)
				}
				if b.NewInvoice != nil || b.OrderBalance != nil || b.InvoiceStatus != nil {
					t.Fatalf("unexpected writes in batch: %+v", b)
				}
				return nil
			},
		)

		o, err := uc.GenerateFromQuote(context.Background(), "q-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.ID == "" || o.QuoteID != "q-1" || o.Customer.Name != "ACME" || o.Customer.Email != "buyer@acme.test" {
			t.Fatalf("unexpected order: %+v", o)
		}
		if !o.Amount.Equal(decimal.RequireFromString("1250")) || !o.Outstanding.Equal(o.Amount) {
			t.Fatalf("expected amount and outstanding of the quote price, got %s / %s", o.Amount, o.Outstanding)
		}
		if o.Status != entities.OrderStatusProcessing || !o.Date.Equal(fixedNow) {
			t.Fatalf("unexpected status or date: %+v", o)
		}
	})

	t.Run("approved quote is not rewritten", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		q := pendingQuote()
		q.Status = entities.QuoteStatusApproved
		d.quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(q, nil)
		d.orders.EXPECT().ListByQuoteID(gomock.Any(), "q-1").Return(nil, nil)
		d.writer.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b interfaces.LifecycleBatch) error {
				if b.QuoteStatus != nil {
					t.Fatalf("expected no quote status change, got %+v", b.QuoteStatus)
				}
				return nil
			},
		)

		if _, err := uc.GenerateFromQuote(context.Background(), "q-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestOrderUseCase_MarkBilled(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(entities.Order{}, nil)

		_, err := uc.MarkBilled(context.Background(), "o-1")
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("already billed is a no-op", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		o := entities.Order{ID: "o-1", Amount: decimal.NewFromInt(10), Outstanding: decimal.Zero, Status: entities.OrderStatusInvoiced}
		d.orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(o, nil)

		res, err := uc.MarkBilled(context.Background(), "o-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.OrderStatusInvoiced {
			t.Fatalf("expected invoiced, got %s", res.Status)
		}
	})

	t.Run("zeroes balance", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		o := entities.Order{ID: "o-1", Amount: decimal.NewFromInt(10), Outstanding: decimal.NewFromInt(4), Status: entities.OrderStatusShipped, Version: 3}
		d.orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(o, nil)
		d.writer.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b interfaces.LifecycleBatch) error {
				c := b.OrderBalance
				if c == nil || c.ExpectedVersion != 3 || !c.Outstanding.IsZero() || c.Status != entities.OrderStatusInvoiced {
					t.Fatalf("unexpected balance change: %+v", c)
				}
				return nil
			},
		)

		res, err := uc.MarkBilled(context.Background(), "o-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Outstanding.IsZero() || res.Status != entities.OrderStatusInvoiced || res.Version != 4 {
			t.Fatalf("unexpected order: %+v", res)
		}
	})

	t.Run("stale order", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		o := entities.Order{ID: "o-1", Amount: decimal.NewFromInt(10), Outstanding: decimal.NewFromInt(10)}
		d.orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(o, nil)
		d.writer.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(interfaces.ErrStaleOrder)

		_, err := uc.MarkBilled(context.Background(), "o-1")
		if !errors.Is(err, ErrConcurrentModification) {
			t.Fatalf("expected ErrConcurrentModification, got %v", err)
		}
	})
}

func TestOrderUseCase_SetStatus(t *testing.T) {
	t.Run("invoiced is reserved", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil, nil, Options{})
		_, err := uc.SetStatus(context.Background(), "o-1", entities.OrderStatusInvoiced)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil, nil, Options{})
		_, err := uc.SetStatus(context.Background(), "o-1", entities.OrderStatus("lost"))
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.orders.EXPECT().UpdateStatus(gomock.Any(), "o-1", entities.OrderStatusShipped).Return(entities.Order{}, nil)

		_, err := uc.SetStatus(context.Background(), "o-1", entities.OrderStatusShipped)
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		uc, d := newOrderUseCase(t, Options{})
		d.orders.EXPECT().UpdateStatus(gomock.Any(), "o-1", entities.OrderStatusDelivered).Return(entities.Order{ID: "o-1", Status: entities.OrderStatusDelivered}, nil)

		res, err := uc.SetStatus(context.Background(), "o-1", entities.OrderStatusDelivered)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.OrderStatusDelivered {
			t.Fatalf("expected delivered, got %s", res.Status)
		}
	})
}

func TestOrderUseCase_List(t *testing.T) {
	uc, d := newOrderUseCase(t, Options{})
	d.orders.EXPECT().List(gomock.Any()).Return(nil, errors.New("db"))

	_, err := uc.List(context.Background())
	if !errors.Is(err, ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure, got %v", err)
	}
}
