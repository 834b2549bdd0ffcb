package repository

import (
	"context"

	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	invoicesNumberIndex    = "invoice_number-index"
	invoicesAccessKeyIndex = "access_key-index"
	invoicesOrderIDIndex   = "order_id-index"
)

type invoiceItem struct {
	ID            string `dynamodbav:"id"`
	InvoiceNumber string `dynamodbav:"invoice_number"`
	AccessKey     string `dynamodbav:"access_key,omitempty"`
	OrderID       string `dynamodbav:"order_id"`
	CustomerName  string `dynamodbav:"customer_name"`
	IssueDate     string `dynamodbav:"issue_date"`
	Status        string `dynamodbav:"status"`
	Total         string `dynamodbav:"total"`
	CreatedAt     string `dynamodbav:"created_at"`
}

// InvoiceDynamoRepository reads invoices from DynamoDB.

type InvoiceDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb DynamoAPI, tables Tables) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{ddb: ddb, tableName: tables.Invoices}
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	raw, err := getItem(ctx, r.ddb, r.tableName, id)
	if err != nil || len(raw) == 0 {
		return entities.Invoice{}, err
	}
	return unmarshalInvoice(raw)
}

func (r *InvoiceDynamoRepository) List(ctx context.Context) ([]entities.Invoice, error) {
	raws, err := scanAll(ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	return unmarshalInvoices(raws)
}

func (r *InvoiceDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error) {
	return r.listByIndex(ctx, invoicesOrderIDIndex, "order_id", orderID)
}

func (r *InvoiceDynamoRepository) ListByInvoiceNumber(ctx context.Context, invoiceNumber string) ([]entities.Invoice, error) {
	return r.listByIndex(ctx, invoicesNumberIndex, "invoice_number", invoiceNumber)
}

func (r *InvoiceDynamoRepository) ListByAccessKey(ctx context.Context, accessKey string) ([]entities.Invoice, error) {
	if accessKey == "" {
		return nil, nil
	}
	return r.listByIndex(ctx, invoicesAccessKeyIndex, "access_key", accessKey)
}

func (r *InvoiceDynamoRepository) listByIndex(ctx context.Context, index, attr, value string) ([]entities.Invoice, error) {
	raws, err := queryIndex(ctx, r.ddb, r.tableName, index, attr, value)
	if err != nil {
		return nil, err
	}
	return unmarshalInvoices(raws)
}

func unmarshalInvoices(raws []map[string]types.AttributeValue) ([]entities.Invoice, error) {
	out := make([]entities.Invoice, 0, len(raws))
	for _, raw := range raws {
		inv, err := unmarshalInvoice(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func unmarshalInvoice(raw map[string]types.AttributeValue) (entities.Invoice, error) {
	var it invoiceItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	return invoiceItem{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		AccessKey:     inv.AccessKey,
		OrderID:       inv.OrderID,
		CustomerName:  inv.CustomerName,
		IssueDate:     formatTime(inv.IssueDate),
		Status:        string(inv.Status),
		Total:         formatMoney(inv.Total),
		CreatedAt:     formatTime(inv.CreatedAt),
	}
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	return entities.Invoice{
		ID:            it.ID,
		InvoiceNumber: it.InvoiceNumber,
		AccessKey:     it.AccessKey,
		OrderID:       it.OrderID,
		CustomerName:  it.CustomerName,
		IssueDate:     parseTime(it.IssueDate),
		Status:        entities.InvoiceStatus(it.Status),
		Total:         parseMoney(it.Total),
		CreatedAt:     parseTime(it.CreatedAt),
	}
}
