package repository

import (
	"context"

	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const ordersQuoteIDIndex = "quote_id-index"

type orderItem struct {
	ID            string `dynamodbav:"id"`
	QuoteID       string `dynamodbav:"quote_id,omitempty"`
	CustomerName  string `dynamodbav:"customer_name"`
	CustomerEmail string `dynamodbav:"customer_email,omitempty"`
	Date          string `dynamodbav:"date"`
	Amount        string `dynamodbav:"amount"`
	Status        string `dynamodbav:"status"`
	Outstanding   string `dynamodbav:"outstanding"`
	Version       int64  `dynamodbav:"version"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// OrderDynamoRepository reads orders and applies plain status sets. Inserts
// and balance changes go through LifecycleDynamoWriter.

type OrderDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb DynamoAPI, tables Tables) *OrderDynamoRepository {
	return &OrderDynamoRepository{ddb: ddb, tableName: tables.Orders}
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	raw, err := getItem(ctx, r.ddb, r.tableName, id)
	if err != nil || len(raw) == 0 {
		return entities.Order{}, err
	}
	return unmarshalOrder(raw)
}

func (r *OrderDynamoRepository) List(ctx context.Context) ([]entities.Order, error) {
	raws, err := scanAll(ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	return unmarshalOrders(raws)
}

func (r *OrderDynamoRepository) ListByQuoteID(ctx context.Context, quoteID string) ([]entities.Order, error) {
	raws, err := queryIndex(ctx, r.ddb, r.tableName, ordersQuoteIDIndex, "quote_id", quoteID)
	if err != nil {
		return nil, err
	}
	return unmarshalOrders(raws)
}

// UpdateStatus bumps the version so a balance change computed from an older
// read is refused instead of overwriting the new status.
func (r *OrderDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) (entities.Order, error) {
	attrs, err := updateItem(ctx, r.ddb, r.tableName, id,
		"SET #status = :status, #updated_at = :updated_at ADD #version :one",
		map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: nowString()},
			":one":        &types.AttributeValueMemberN{Value: "1"},
		},
		map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
			"#version":    "version",
		},
	)
	if err != nil || len(attrs) == 0 {
		return entities.Order{}, err
	}
	return unmarshalOrder(attrs)
}

func unmarshalOrders(raws []map[string]types.AttributeValue) ([]entities.Order, error) {
	out := make([]entities.Order, 0, len(raws))
	for _, raw := range raws {
		o, err := unmarshalOrder(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func unmarshalOrder(raw map[string]types.AttributeValue) (entities.Order, error) {
	var it orderItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func toOrderItem(o entities.Order) orderItem {
	return orderItem{
		ID:            o.ID,
		QuoteID:       o.QuoteID,
		CustomerName:  o.Customer.Name,
		CustomerEmail: o.Customer.Email,
		Date:          formatTime(o.Date),
		Amount:        formatMoney(o.Amount),
		Status:        string(o.Status),
		Outstanding:   formatMoney(o.Outstanding),
		Version:       o.Version,
		CreatedAt:     formatTime(o.CreatedAt),
		UpdatedAt:     formatTime(o.UpdatedAt),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	return entities.Order{
		ID:          it.ID,
		QuoteID:     it.QuoteID,
		Customer:    entities.Customer{Name: it.CustomerName, Email: it.CustomerEmail},
		Date:        parseTime(it.Date),
		Amount:      parseMoney(it.Amount),
		Status:      entities.OrderStatus(it.Status),
		Outstanding: parseMoney(it.Outstanding),
		Version:     it.Version,
		CreatedAt:   parseTime(it.CreatedAt),
		UpdatedAt:   parseTime(it.UpdatedAt),
	}
}
