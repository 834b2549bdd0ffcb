package usecase

import (
	"context"
	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NewInvoice carries the data needed to invoice an order.
//
// Status defaults to paid: invoices are recorded as already settled.
type NewInvoice struct {
	OrderID       string
	InvoiceNumber string
	AccessKey     string
	IssueDate     time.Time
	Amount        decimal.Decimal
	Status        entities.InvoiceStatus
}

// IInvoiceUseCase exposes invoice operations.
//
//   - Generate issues an invoice and lowers the order's outstanding balance.
//   - Cancel voids an invoice and gives a paid invoice's total back to its order.

type IInvoiceUseCase interface {
	Generate(ctx context.Context, in NewInvoice) (entities.Invoice, error)
	Cancel(ctx context.Context, invoiceID string) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context) ([]entities.Invoice, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error)
}

type InvoiceUseCase struct {
	invoices interfaces.IInvoiceRepository
	orders   interfaces.IOrderRepository
	writer   interfaces.ILifecycleWriter
	opts     Options
	log      *zap.Logger
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(invoices interfaces.IInvoiceRepository, orders interfaces.IOrderRepository, writer interfaces.ILifecycleWriter, opts Options) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoices: invoices,
		orders:   orders,
		writer:   writer,
		opts:     opts,
		log:      opts.logger().Named("invoice"),
	}
}

func (u *InvoiceUseCase) Generate(ctx context.Context, in NewInvoice) (entities.Invoice, error) {
	in.OrderID = trimID(in.OrderID)
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	in.AccessKey = strings.TrimSpace(in.AccessKey)
	if in.OrderID == "" {
		return entities.Invoice{}, ErrInvalidOrderID
	}
	if in.InvoiceNumber == "" {
		return entities.Invoice{}, ErrInvalidInvoiceNumber
	}
	amount := money(in.Amount)
	if !amount.IsPositive() {
		return entities.Invoice{}, ErrInvalidAmount
	}
	if in.AccessKey != "" && len(in.AccessKey) != entities.AccessKeyLength {
		return entities.Invoice{}, ErrInvalidAccessKey
	}
	if in.Status == "" {
		in.Status = entities.InvoiceStatusPaid
	}
	if in.Status != entities.InvoiceStatusPaid && in.Status != entities.InvoiceStatusPending {
		return entities.Invoice{}, ErrInvalidStatus
	}
	log := u.log.With(zap.String("order_id", in.OrderID), zap.String("invoice_number", in.InvoiceNumber))

	sameNumber, err := u.invoices.ListByInvoiceNumber(ctx, in.InvoiceNumber)
	if err != nil {
		return entities.Invoice{}, storeErr("list invoices by number", err)
	}
	if len(sameNumber) > 0 {
		log.Info("duplicate invoice number")
		return entities.Invoice{}, ErrDuplicateInvoiceNumber
	}
	if in.AccessKey != "" {
		sameKey, err := u.invoices.ListByAccessKey(ctx, in.AccessKey)
		if err != nil {
			return entities.Invoice{}, storeErr("list invoices by access key", err)
		}
		if len(sameKey) > 0 {
			log.Info("duplicate access key")
			return entities.Invoice{}, ErrDuplicateAccessKey
		}
	}

	order, err := u.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return entities.Invoice{}, storeErr("get order", err)
	}
	if order.ID == "" {
		return entities.Invoice{}, ErrOrderNotFound
	}

	now := u.opts.now()
	issueDate := in.IssueDate.UTC()
	if in.IssueDate.IsZero() {
		issueDate = now
	}
	invoice := entities.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: in.InvoiceNumber,
		AccessKey:     in.AccessKey,
		OrderID:       order.ID,
		CustomerName:  order.Customer.Name,
		IssueDate:     issueDate,
		Status:        in.Status,
		Total:         amount,
		CreatedAt:     now,
	}

	outstanding := order.ApplyCharge(amount)
	status := order.Status
	if outstanding.IsZero() {
		status = entities.OrderStatusInvoiced
	}
	batch := interfaces.LifecycleBatch{
		NewInvoice: &invoice,
		OrderBalance: &interfaces.OrderBalanceChange{
			OrderID:         order.ID,
			ExpectedVersion: order.Version,
			Outstanding:     outstanding,
			Status:          status,
		},
	}

	if err := u.writer.Commit(ctx, batch); err != nil {
		switch {
		case errors.Is(err, interfaces.ErrInvoiceNumberTaken):
			return entities.Invoice{}, ErrDuplicateInvoiceNumber
		case errors.Is(err, interfaces.ErrAccessKeyTaken):
			return entities.Invoice{}, ErrDuplicateAccessKey
		case errors.Is(err, interfaces.ErrStaleOrder):
			log.Warn("order balance changed during invoicing")
			return entities.Invoice{}, ErrConcurrentModification
		}
		log.Error("generate invoice failed", zap.Error(err))
		return entities.Invoice{}, storeErr("generate invoice", err)
	}
	log.Info("invoice generated",
		zap.String("invoice_id", invoice.ID),
		zap.String("total", invoice.Total.StringFixed(2)),
		zap.String("outstanding", outstanding.StringFixed(2)),
	)
	return invoice, nil
}

// Cancel voids an invoice. Cancelling an invoice that is already cancelled is
// a no-op, so a balance is never given back twice.
func (u *InvoiceUseCase) Cancel(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	invoice, err := u.GetByID(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if invoice.Status == entities.InvoiceStatusCancelled {
		return invoice, nil
	}
	log := u.log.With(zap.String("invoice_id", invoice.ID), zap.String("order_id", invoice.OrderID))

	batch := interfaces.LifecycleBatch{
		InvoiceStatus: &interfaces.InvoiceStatusChange{
			InvoiceID: invoice.ID,
			From:      invoice.Status,
			To:        entities.InvoiceStatusCancelled,
		},
	}

	if invoice.Status == entities.InvoiceStatusPaid && invoice.OrderID != "" {
		order, err := u.orders.GetByID(ctx, invoice.OrderID)
		if err != nil {
			return entities.Invoice{}, storeErr("get order", err)
		}
		if order.ID == "" {
			log.Warn("invoiced order is gone; cancelling without reversal")
		} else {
			status := entities.OrderStatusProcessing
			if u.opts.StrictTransitions && order.Status != entities.OrderStatusInvoiced {
				status = order.Status
			}
			batch.OrderBalance = &interfaces.OrderBalanceChange{
				OrderID:         order.ID,
				ExpectedVersion: order.Version,
				Outstanding:     order.ApplyRefund(invoice.Total),
				Status:          status,
			}
		}
	}

	if err := u.writer.Commit(ctx, batch); err != nil {
		if errors.Is(err, interfaces.ErrStaleOrder) || errors.Is(err, interfaces.ErrStaleInvoice) {
			log.Warn("cancel lost a concurrent update", zap.Error(err))
			return entities.Invoice{}, ErrConcurrentModification
		}
		log.Error("cancel invoice failed", zap.Error(err))
		return entities.Invoice{}, storeErr("cancel invoice", err)
	}

	invoice.Status = entities.InvoiceStatusCancelled
	log.Info("invoice cancelled", zap.Bool("reverted", batch.OrderBalance != nil))
	return invoice, nil
}

func (u *InvoiceUseCase) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	id = trimID(id)
	if id == "" {
		return entities.Invoice{}, ErrInvalidInvoiceID
	}

	inv, err := u.invoices.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, storeErr("get invoice", err)
	}
	if inv.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (u *InvoiceUseCase) List(ctx context.Context) ([]entities.Invoice, error) {
	invoices, err := u.invoices.List(ctx)
	if err != nil {
		return nil, storeErr("list invoices", err)
	}
	sortInvoices(invoices)
	return invoices, nil
}

func (u *InvoiceUseCase) ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error) {
	orderID = trimID(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	invoices, err := u.invoices.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, storeErr("list invoices by order", err)
	}
	sortInvoices(invoices)
	return invoices, nil
}

func sortInvoices(invoices []entities.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
}

func applyBalance(o entities.Order, c interfaces.OrderBalanceChange, now time.Time) entities.Order {
	o.Outstanding = c.Outstanding
	o.Status = c.Status
	o.Version = c.ExpectedVersion + 1
	o.UpdatedAt = now
	return o
}
