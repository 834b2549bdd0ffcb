package memory

import (
	"context"

	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"
)

type QuoteRepository struct{ s *Store }

var _ interfaces.IQuoteRepository = (*QuoteRepository)(nil)

func (r *QuoteRepository) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.quotes[q.ID]; ok {
		return entities.Quote{}, errDuplicateID
	}
	r.s.st.quotes[q.ID] = q
	return q, nil
}

func (r *QuoteRepository) GetByID(_ context.Context, id string) (entities.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.quotes[id], nil
}

func (r *QuoteRepository) List(_ context.Context) ([]entities.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.Quote, 0, len(r.s.st.quotes))
	for _, q := range r.s.st.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (r *QuoteRepository) UpdateStatus(_ context.Context, id string, status entities.QuoteStatus) (entities.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.st.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	q.Status = status
	q.UpdatedAt = r.s.now()
	r.s.st.quotes[id] = q
	return q, nil
}

type OrderRepository struct{ s *Store }

var _ interfaces.IOrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) GetByID(_ context.Context, id string) (entities.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.orders[id], nil
}

func (r *OrderRepository) List(_ context.Context) ([]entities.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.Order, 0, len(r.s.st.orders))
	for _, o := range r.s.st.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepository) ListByQuoteID(_ context.Context, quoteID string) ([]entities.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entities.Order
	for _, o := range r.s.st.orders {
		if o.QuoteID == quoteID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status entities.OrderStatus) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return entities.Order{}, nil
	}
	o.Status = status
	o.Version++
	o.UpdatedAt = r.s.now()
	r.s.st.orders[id] = o
	return o, nil
}

type InvoiceRepository struct{ s *Store }

var _ interfaces.IInvoiceRepository = (*InvoiceRepository)(nil)

func (r *InvoiceRepository) GetByID(_ context.Context, id string) (entities.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.invoices[id], nil
}

func (r *InvoiceRepository) List(_ context.Context) ([]entities.Invoice, error) {
	return r.filter(func(entities.Invoice) bool { return true }), nil
}

func (r *InvoiceRepository) ListByOrderID(_ context.Context, orderID string) ([]entities.Invoice, error) {
	return r.filter(func(inv entities.Invoice) bool { return inv.OrderID == orderID }), nil
}

func (r *InvoiceRepository) ListByInvoiceNumber(_ context.Context, invoiceNumber string) ([]entities.Invoice, error) {
	return r.filter(func(inv entities.Invoice) bool { return inv.InvoiceNumber == invoiceNumber }), nil
}

func (r *InvoiceRepository) ListByAccessKey(_ context.Context, accessKey string) ([]entities.Invoice, error) {
	if accessKey == "" {
		return nil, nil
	}
	return r.filter(func(inv entities.Invoice) bool { return inv.AccessKey == accessKey }), nil
}

func (r *InvoiceRepository) filter(keep func(entities.Invoice) bool) []entities.Invoice {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entities.Invoice
	for _, inv := range r.s.st.invoices {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	return out
}
