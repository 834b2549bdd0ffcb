package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"erp_lifecycle/internal/adapter/persistence/memory"
	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

type lifecycle struct {
	store    *memory.Store
	quotes   *usecase.QuoteUseCase
	orders   *usecase.OrderUseCase
	invoices *usecase.InvoiceUseCase
}

func newLifecycle(opts usecase.Options) lifecycle {
	s := memory.NewStore()
	return lifecycle{
		store:    s,
		quotes:   usecase.NewQuoteUseCase(s.Quotes(), opts),
		orders:   usecase.NewOrderUseCase(s.Quotes(), s.Orders(), s, opts),
		invoices: usecase.NewInvoiceUseCase(s.Invoices(), s.Orders(), s, opts),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (l lifecycle) orderFromNewQuote(t *testing.T, price string) entities.Order {
	t.Helper()
	ctx := context.Background()
	q, err := l.quotes.CreateQuote(ctx, usecase.NewQuote{
		Client: entities.ClientSnapshot{ID: "c-1", Name: "ACME", Email: "buyer@acme.test"},
		Price:  dec(price),
	})
	require.NoError(t, err)
	o, err := l.orders.GenerateFromQuote(ctx, q.ID)
	require.NoError(t, err)
	return o
}

func (l lifecycle) invoice(t *testing.T, orderID, number, amount string) entities.Invoice {
	t.Helper()
	inv, err := l.invoices.Generate(context.Background(), usecase.NewInvoice{
		OrderID:       orderID,
		InvoiceNumber: number,
		Amount:        dec(amount),
	})
	require.NoError(t, err)
	return inv
}

func (l lifecycle) reload(t *testing.T, id string) entities.Order {
	t.Helper()
	o, err := l.orders.GetByID(context.Background(), id)
	require.NoError(t, err)
	assertBalanceInvariants(t, o)
	return o
}

func assertBalanceInvariants(t *testing.T, o entities.Order) {
	t.Helper()
	assert.False(t, o.Outstanding.IsNegative(), "outstanding below zero: %s", o.Outstanding)
	assert.True(t, o.Outstanding.LessThanOrEqual(o.Amount), "outstanding %s above amount %s", o.Outstanding, o.Amount)
}

func TestLifecycle_OrderFromPendingQuote(t *testing.T) {
	l := newLifecycle(usecase.Options{})
	ctx := context.Background()

	q, err := l.quotes.CreateQuote(ctx, usecase.NewQuote{
		Client: entities.ClientSnapshot{Name: "ACME"},
		Price:  dec("1250.00"),
	})
	require.NoError(t, err)
	require.Equal(t, entities.QuoteStatusPending, q.Status)

	o, err := l.orders.GenerateFromQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, o.Amount.Equal(dec("1250")))
	assert.True(t, o.Outstanding.Equal(dec("1250")))
	assert.Equal(t, entities.OrderStatusProcessing, o.Status)
	assert.Equal(t, q.ID, o.QuoteID)

	q, err = l.quotes.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuoteStatusApproved, q.Status)
}

func TestLifecycle_SingleInvoiceSettlesOrder(t *testing.T) {
	l := newLifecycle(usecase.Options{})
	o := l.orderFromNewQuote(t, "1250.00")

	inv := l.invoice(t, o.ID, "NF-1", "1250.00")
	assert.Equal(t, entities.InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Total.Equal(dec("1250")))

	o = l.reload(t, o.ID)
	assert.True(t, o.Outstanding.IsZero())
	assert.Equal(t, entities.OrderStatusInvoiced, o.Status)
}

func TestLifecycle_PartialInvoices(t *testing.T) {
	l := newLifecycle(usecase.Options{})
	o := l.orderFromNewQuote(t, "1250.00")

	l.invoice(t, o.ID, "NF-1", "500.00")
	mid := l.reload(t, o.ID)
	assert.True(t, mid.Outstanding.Equal(dec("750")))
	assert.Equal(t, entities.OrderStatusProcessing, mid.Status)

	l.invoice(t, o.ID, "NF-2", "750.00")
	o = l.reload(t, o.ID)
	assert.True(t, o.Outstanding.IsZero())
	assert.Equal(t, entities.OrderStatusInvoiced, o.Status)

	invs, err := l.invoices.ListByOrderID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, invs, 2)
	total := decimal.Zero
	for _, inv := range invs {
		total = total.Add(inv.Total)
	}
	assert.True(t, total.Equal(dec("1250")))
}

func TestLifecycle_CancelRestoresBalance(t *testing.T) {
	l := newLifecycle(usecase.Options{})
	ctx := context.Background()
	o := l.orderFromNewQuote(t, "1250.00")
	inv := l.invoice(t, o.ID, "NF-1", "1250.00")

	cancelled, err := l.invoices.Cancel(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.InvoiceStatusCancelled, cancelled.Status)

	o = l.reload(t, o.ID)
	assert.True(t, o.Outstanding.Equal(dec("1250")))
	assert.Equal(t, entities.OrderStatusProcessing, o.Status)

	// A second cancel must not give the balance back again.
	_, err = l.invoices.Cancel(ctx, inv.ID)
	require.NoError(t, err)
	again := l.reload(t, o.ID)
	assert.True(t, again.Outstanding.Equal(dec("1250")))
	assert.Equal(t, o.Version, again.Version)
}

func TestLifecycle_DuplicateInvoiceNumberLeavesOrderUntouched(t *testing.T) {
	l := newLifecycle(usecase.Options{})
	ctx := context.Background()
	first := l.orderFromNewQuote(t, "1250.00")
	second := l.orderFromNewQuote(t, "300.00")
	l.invoice(t, first.ID, "NF-1", "100.00")

	before := l.reload(t, second.ID)
	_, err := l.invoices.Generate(ctx, usecase.NewInvoice{OrderID: second.ID, InvoiceNumber: "NF-1", Amount: dec("100")})
	require.ErrorIs(t, err, usecase.ErrDuplicateInvoiceNumber)

	after := l.reload(t, second.ID)
	assert.True(t, before.Outstanding.Equal(after.Outstanding))
	invs, err := l.invoices.ListByOrderID(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestLifecycle_OneOrderPerQuote(t *testing.T) {
	defer goleak.VerifyNone(t)
	l := newLifecycle(usecase.Options{})
	ctx := context.Background()
	q, err := l.quotes.CreateQuote(ctx, usecase.NewQuote{Client: entities.ClientSnapshot{Name: "ACME"}, Price: dec("10")})
	require.NoError(t, err)

	var g errgroup.Group
	errs := make([]error, 8)
	for i := range errs {
		g.Go(func() error {
			_, errs[i] = l.orders.GenerateFromQuote(ctx, q.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, usecase.ErrDuplicateOrderForQuote)
	}
	assert.Equal(t, 1, ok)

	orders, err := l.orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestLifecycle_ConcurrentInvoicesNeverOverbill(t *testing.T) {
	defer goleak.VerifyNone(t)
	l := newLifecycle(usecase.Options{})
	ctx := context.Background()
	o := l.orderFromNewQuote(t, "100.00")

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			// Losing the version race is expected; the balance check below covers it.
			_, _ = l.invoices.Generate(ctx, usecase.NewInvoice{
				OrderID:       o.ID,
				InvoiceNumber: fmt.Sprintf("NF-%02d", i),
				Amount:        dec("30"),
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	o = l.reload(t, o.ID)
	invs, err := l.invoices.ListByOrderID(ctx, o.ID)
	require.NoError(t, err)
	charged := decimal.Zero
	for _, inv := range invs {
		charged = charged.Add(inv.Total)
	}
	// Every committed invoice lowered the balance exactly once.
	expected := decimal.Max(decimal.Zero, o.Amount.Sub(charged))
	assert.True(t, o.Outstanding.Equal(expected), "outstanding %s, charged %s", o.Outstanding, charged)
	assert.Equal(t, o.Outstanding.IsZero(), o.Status == entities.OrderStatusInvoiced)
}

func TestLifecycle_MarkBilled(t *testing.T) {
	l := newLifecycle(usecase.Options{})
	ctx := context.Background()
	o := l.orderFromNewQuote(t, "80.00")
	l.invoice(t, o.ID, "NF-1", "30.00")

	billed, err := l.orders.MarkBilled(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, billed.Outstanding.IsZero())
	assert.Equal(t, entities.OrderStatusInvoiced, billed.Status)

	stored := l.reload(t, o.ID)
	assert.Equal(t, billed.Version, stored.Version)

	_, err = l.orders.MarkBilled(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Version, l.reload(t, o.ID).Version)
}

func TestLifecycle_StrictTransitions(t *testing.T) {
	l := newLifecycle(usecase.Options{StrictTransitions: true})
	ctx := context.Background()

	q, err := l.quotes.CreateQuote(ctx, usecase.NewQuote{Client: entities.ClientSnapshot{Name: "ACME"}, Price: dec("10")})
	require.NoError(t, err)
	_, err = l.quotes.Reject(ctx, q.ID)
	require.NoError(t, err)

	_, err = l.quotes.Approve(ctx, q.ID)
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
	_, err = l.orders.GenerateFromQuote(ctx, q.ID)
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
}
