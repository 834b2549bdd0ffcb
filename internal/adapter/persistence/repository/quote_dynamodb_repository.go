package repository

import (
	"context"

	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type quoteItem struct {
	ID           string         `dynamodbav:"id"`
	ClientID     string         `dynamodbav:"client_id,omitempty"`
	ClientName   string         `dynamodbav:"client_name"`
	ClientEmail  string         `dynamodbav:"client_email,omitempty"`
	Product      map[string]any `dynamodbav:"product,omitempty"`
	Price        string         `dynamodbav:"price"`
	DeliveryDate string         `dynamodbav:"delivery_date,omitempty"`
	Status       string         `dynamodbav:"status"`
	CreatedAt    string         `dynamodbav:"created_at"`
	UpdatedAt    string         `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.

type QuoteDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb DynamoAPI, tables Tables) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{ddb: ddb, tableName: tables.Quotes}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	raw, err := getItem(ctx, r.ddb, r.tableName, id)
	if err != nil || len(raw) == 0 {
		return entities.Quote{}, err
	}
	return unmarshalQuote(raw)
}

func (r *QuoteDynamoRepository) List(ctx context.Context) ([]entities.Quote, error) {
	raws, err := scanAll(ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Quote, 0, len(raws))
	for _, raw := range raws {
		q, err := unmarshalQuote(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (r *QuoteDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error) {
	attrs, err := updateItem(ctx, r.ddb, r.tableName, id,
		"SET #status = :status, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: nowString()},
		},
		map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		},
	)
	if err != nil || len(attrs) == 0 {
		return entities.Quote{}, err
	}
	return unmarshalQuote(attrs)
}

func unmarshalQuote(raw map[string]types.AttributeValue) (entities.Quote, error) {
	var it quoteItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	return quoteItem{
		ID:           q.ID,
		ClientID:     q.Client.ID,
		ClientName:   q.Client.Name,
		ClientEmail:  q.Client.Email,
		Product:      q.Product,
		Price:        formatMoney(q.Price),
		DeliveryDate: formatTime(q.DeliveryDate),
		Status:       string(q.Status),
		CreatedAt:    formatTime(q.CreatedAt),
		UpdatedAt:    formatTime(q.UpdatedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	return entities.Quote{
		ID:           it.ID,
		Client:       entities.ClientSnapshot{ID: it.ClientID, Name: it.ClientName, Email: it.ClientEmail},
		Product:      it.Product,
		Price:        parseMoney(it.Price),
		DeliveryDate: parseTime(it.DeliveryDate),
		Status:       entities.QuoteStatus(it.Status),
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
}
