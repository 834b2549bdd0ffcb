// Package memory keeps quotes, orders and invoices in process memory. It
// implements the same ports as the DynamoDB repositories, including the
// all-or-nothing lifecycle batches, and backs tests and local runs.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"
)

var errDuplicateID = errors.New("record id already exists")

type state struct {
	quotes   map[string]entities.Quote
	orders   map[string]entities.Order
	invoices map[string]entities.Invoice

	orderByQuote    map[string]string
	invoiceByNumber map[string]string
	invoiceByAccess map[string]string
}

// Store is a mutex-guarded in-memory document store.
type Store struct {
	mu  sync.RWMutex
	st  state
	now func() time.Time
}

var _ interfaces.ILifecycleWriter = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		st: state{
			quotes:          map[string]entities.Quote{},
			orders:          map[string]entities.Order{},
			invoices:        map[string]entities.Invoice{},
			orderByQuote:    map[string]string{},
			invoiceByNumber: map[string]string{},
			invoiceByAccess: map[string]string{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Quotes() *QuoteRepository     { return &QuoteRepository{s: s} }
func (s *Store) Orders() *OrderRepository     { return &OrderRepository{s: s} }
func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{s: s} }

// Commit validates every write of the batch before applying any of them.
func (s *Store) Commit(_ context.Context, b interfaces.LifecycleBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(b); err != nil {
		return err
	}
	now := s.now()

	if o := b.NewOrder; o != nil {
		s.st.orders[o.ID] = *o
		if o.QuoteID != "" {
			s.st.orderByQuote[o.QuoteID] = o.ID
		}
	}
	if c := b.QuoteStatus; c != nil {
		q := s.st.quotes[c.QuoteID]
		q.Status = c.Status
		q.UpdatedAt = now
		s.st.quotes[c.QuoteID] = q
	}
	if inv := b.NewInvoice; inv != nil {
		s.st.invoices[inv.ID] = *inv
		s.st.invoiceByNumber[inv.InvoiceNumber] = inv.ID
		if inv.AccessKey != "" {
			s.st.invoiceByAccess[inv.AccessKey] = inv.ID
		}
	}
	if c := b.OrderBalance; c != nil {
		o := s.st.orders[c.OrderID]
		o.Outstanding = c.Outstanding
		o.Status = c.Status
		o.Version++
		o.UpdatedAt = now
		s.st.orders[c.OrderID] = o
	}
	if c := b.InvoiceStatus; c != nil {
		inv := s.st.invoices[c.InvoiceID]
		inv.Status = c.To
		s.st.invoices[c.InvoiceID] = inv
	}
	return nil
}

func (s *Store) check(b interfaces.LifecycleBatch) error {
	if o := b.NewOrder; o != nil {
		if _, ok := s.st.orders[o.ID]; ok {
			return errDuplicateID
		}
		if _, ok := s.st.orderByQuote[o.QuoteID]; o.QuoteID != "" && ok {
			return interfaces.ErrQuoteAlreadyOrdered
		}
	}
	if c := b.QuoteStatus; c != nil {
		if _, ok := s.st.quotes[c.QuoteID]; !ok {
			return interfaces.ErrMissingBatchTarget
		}
	}
	if inv := b.NewInvoice; inv != nil {
		if _, ok := s.st.invoices[inv.ID]; ok {
			return errDuplicateID
		}
		if _, ok := s.st.invoiceByNumber[inv.InvoiceNumber]; ok {
			return interfaces.ErrInvoiceNumberTaken
		}
		if _, ok := s.st.invoiceByAccess[inv.AccessKey]; inv.AccessKey != "" && ok {
			return interfaces.ErrAccessKeyTaken
		}
	}
	if c := b.OrderBalance; c != nil {
		o, ok := s.st.orders[c.OrderID]
		if !ok {
			return interfaces.ErrMissingBatchTarget
		}
		if o.Version != c.ExpectedVersion {
			return interfaces.ErrStaleOrder
		}
	}
	if c := b.InvoiceStatus; c != nil {
		inv, ok := s.st.invoices[c.InvoiceID]
		if !ok {
			return interfaces.ErrMissingBatchTarget
		}
		if inv.Status != c.From {
			return interfaces.ErrStaleInvoice
		}
	}
	return nil
}
