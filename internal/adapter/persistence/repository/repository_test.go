package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo answers every call with the configured hooks; unset hooks
// return empty outputs.
type fakeDynamo struct {
	put      func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	get      func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	update   func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	query    func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	scan     func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	transact func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.put == nil {
		return &dynamodb.PutItemOutput{}, nil
	}
	return f.put(in)
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.get == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.get(in)
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.update == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return f.update(in)
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.query == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.query(in)
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scan == nil {
		return &dynamodb.ScanOutput{}, nil
	}
	return f.scan(in)
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	if f.transact == nil {
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}
	return f.transact(in)
}

var stamp = time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC)

func mustMarshal(t *testing.T, v any) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

func TestQuoteDynamoRepository_RoundTrip(t *testing.T) {
	q := entities.Quote{
		ID:           "q-1",
		Client:       entities.ClientSnapshot{ID: "c-1", Name: "ACME", Email: "buyer@acme.test"},
		Product:      map[string]any{"model": "M-200"},
		Price:        decimal.RequireFromString("1250.5"),
		DeliveryDate: stamp.Add(72 * time.Hour),
		Status:       entities.QuoteStatusPending,
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}

	var stored map[string]types.AttributeValue
	ddb := &fakeDynamo{
		put: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			assert.Equal(t, "quotes", aws.ToString(in.TableName))
			assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(in.ConditionExpression))
			stored = in.Item
			return &dynamodb.PutItemOutput{}, nil
		},
		get: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			assert.True(t, aws.ToBool(in.ConsistentRead))
			return &dynamodb.GetItemOutput{Item: stored}, nil
		},
	}
	repo := NewQuoteDynamoRepository(ddb, DefaultTables())
	ctx := context.Background()

	_, err := repo.Create(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "1250.50"}, stored["price"])

	got, err := repo.GetByID(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, q.Client, got.Client)
	assert.Equal(t, "M-200", got.Product["model"])
	assert.True(t, got.Price.Equal(q.Price))
	assert.True(t, got.DeliveryDate.Equal(q.DeliveryDate))
	assert.Equal(t, q.Status, got.Status)
}

func TestQuoteDynamoRepository_Missing(t *testing.T) {
	ddb := &fakeDynamo{
		update: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
		},
	}
	repo := NewQuoteDynamoRepository(ddb, DefaultTables())
	ctx := context.Background()

	q, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, q.ID)

	q, err = repo.UpdateStatus(ctx, "nope", entities.QuoteStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, q.ID)
}

func TestOrderDynamoRepository_UpdateStatusBumpsVersion(t *testing.T) {
	ddb := &fakeDynamo{
		update: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			assert.Contains(t, aws.ToString(in.UpdateExpression), "ADD #version :one")
			assert.Equal(t, "version", in.ExpressionAttributeNames["#version"])
			assert.Equal(t, "id", in.ExpressionAttributeNames["#id"])
			o := toOrderItem(entities.Order{ID: "o-1", Status: entities.OrderStatusShipped, Version: 4})
			return &dynamodb.UpdateItemOutput{Attributes: mustMarshal(t, o)}, nil
		},
	}
	repo := NewOrderDynamoRepository(ddb, DefaultTables())

	o, err := repo.UpdateStatus(context.Background(), "o-1", entities.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusShipped, o.Status)
	assert.Equal(t, int64(4), o.Version)
}

func TestOrderDynamoRepository_ListByQuoteID(t *testing.T) {
	ddb := &fakeDynamo{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			assert.Equal(t, ordersQuoteIDIndex, aws.ToString(in.IndexName))
			assert.Equal(t, "quote_id", in.ExpressionAttributeNames["#k"])
			assert.Equal(t, &types.AttributeValueMemberS{Value: "q-1"}, in.ExpressionAttributeValues[":v"])
			o := toOrderItem(entities.Order{ID: "o-1", QuoteID: "q-1", Amount: decimal.NewFromInt(10), Outstanding: decimal.NewFromInt(10)})
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{mustMarshal(t, o)}}, nil
		},
	}
	repo := NewOrderDynamoRepository(ddb, DefaultTables())

	orders, err := repo.ListByQuoteID(context.Background(), "q-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Outstanding.Equal(decimal.NewFromInt(10)))
}

func TestInvoiceDynamoRepository_Lookups(t *testing.T) {
	var indexes []string
	ddb := &fakeDynamo{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			indexes = append(indexes, aws.ToString(in.IndexName))
			return &dynamodb.QueryOutput{}, nil
		},
		scan: func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			return nil, errors.New("scan failed")
		},
	}
	repo := NewInvoiceDynamoRepository(ddb, DefaultTables())
	ctx := context.Background()

	_, err := repo.ListByInvoiceNumber(ctx, "NF-1")
	require.NoError(t, err)
	_, err = repo.ListByOrderID(ctx, "o-1")
	require.NoError(t, err)
	_, err = repo.ListByAccessKey(ctx, "")
	require.NoError(t, err)
	_, err = repo.ListByAccessKey(ctx, "K")
	require.NoError(t, err)
	assert.Equal(t, []string{invoicesNumberIndex, invoicesOrderIDIndex, invoicesAccessKeyIndex}, indexes)

	_, err = repo.List(ctx)
	assert.EqualError(t, err, "scan failed")
}

func TestLifecycleDynamoWriter_OrderBatch(t *testing.T) {
	var got *dynamodb.TransactWriteItemsInput
	ddb := &fakeDynamo{
		transact: func(in *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			got = in
			return &dynamodb.TransactWriteItemsOutput{}, nil
		},
	}
	w := NewLifecycleDynamoWriter(ddb, DefaultTables())

	order := entities.Order{ID: "o-1", QuoteID: "q-1", Amount: decimal.NewFromInt(10), Outstanding: decimal.NewFromInt(10)}
	err := w.Commit(context.Background(), interfaces.LifecycleBatch{
		NewOrder:    &order,
		QuoteStatus: &interfaces.QuoteStatusChange{QuoteID: "q-1", Status: entities.QuoteStatusApproved},
	})
	require.NoError(t, err)
	require.Len(t, got.TransactItems, 3)

	assert.Equal(t, "orders", aws.ToString(got.TransactItems[0].Put.TableName))
	guard := got.TransactItems[1].Put
	assert.Equal(t, "lifecycle_guards", aws.ToString(guard.TableName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "quote-order#q-1"}, guard.Item["id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "o-1"}, guard.Item["owner_id"])
	assert.Equal(t, "quotes", aws.ToString(got.TransactItems[2].Update.TableName))
}

func TestLifecycleDynamoWriter_InvoiceBatch(t *testing.T) {
	var got *dynamodb.TransactWriteItemsInput
	ddb := &fakeDynamo{
		transact: func(in *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			got = in
			return &dynamodb.TransactWriteItemsOutput{}, nil
		},
	}
	w := NewLifecycleDynamoWriter(ddb, DefaultTables())

	inv := entities.Invoice{ID: "i-1", InvoiceNumber: "NF-1", AccessKey: "K", OrderID: "o-1", Total: decimal.NewFromInt(4)}
	err := w.Commit(context.Background(), interfaces.LifecycleBatch{
		NewInvoice:   &inv,
		OrderBalance: &interfaces.OrderBalanceChange{OrderID: "o-1", ExpectedVersion: 2, Outstanding: decimal.NewFromInt(6), Status: entities.OrderStatusProcessing},
	})
	require.NoError(t, err)
	require.Len(t, got.TransactItems, 4)

	assert.Equal(t, &types.AttributeValueMemberS{Value: "invoice-number#NF-1"}, got.TransactItems[1].Put.Item["id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "access-key#K"}, got.TransactItems[2].Put.Item["id"])

	bal := got.TransactItems[3].Update
	assert.Equal(t, "attribute_exists(#id) AND #version = :expected", aws.ToString(bal.ConditionExpression))
	assert.Equal(t, &types.AttributeValueMemberN{Value: "2"}, bal.ExpressionAttributeValues[":expected"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "3"}, bal.ExpressionAttributeValues[":next"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "6.00"}, bal.ExpressionAttributeValues[":outstanding"])
}

func TestLifecycleDynamoWriter_EmptyBatch(t *testing.T) {
	ddb := &fakeDynamo{
		transact: func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			t.Fatalf("empty batch must not reach DynamoDB")
			return nil, nil
		},
	}
	require.NoError(t, NewLifecycleDynamoWriter(ddb, DefaultTables()).Commit(context.Background(), interfaces.LifecycleBatch{}))
}

func cancelled(reasons ...types.CancellationReason) error {
	return &types.TransactionCanceledException{Message: aws.String("cancelled"), CancellationReasons: reasons}
}

func none() types.CancellationReason { return types.CancellationReason{Code: aws.String("None")} }

func failed(item map[string]types.AttributeValue) types.CancellationReason {
	return types.CancellationReason{Code: aws.String("ConditionalCheckFailed"), Item: item}
}

func TestConflictFromCancellation(t *testing.T) {
	items := []transactItem{
		{onConflict: errRecordExists},
		{onConflict: interfaces.ErrInvoiceNumberTaken},
		{onConflict: interfaces.ErrStaleOrder, onMissing: interfaces.ErrMissingBatchTarget},
	}
	existing := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "o-1"}}

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "guard taken", err: cancelled(none(), failed(nil), none()), want: interfaces.ErrInvoiceNumberTaken},
		{name: "stale order", err: cancelled(none(), none(), failed(existing)), want: interfaces.ErrStaleOrder},
		{name: "missing order", err: cancelled(none(), none(), failed(nil)), want: interfaces.ErrMissingBatchTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, conflictFromCancellation(tc.err, items), tc.want)
		})
	}

	t.Run("other cancellation", func(t *testing.T) {
		reason := types.CancellationReason{Code: aws.String("TransactionConflict")}
		err := conflictFromCancellation(cancelled(reason), items)
		var tce *types.TransactionCanceledException
		assert.ErrorAs(t, err, &tce)
		assert.Contains(t, err.Error(), "transaction cancelled")
	})

	t.Run("not a cancellation", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Same(t, boom, conflictFromCancellation(boom, items))
	})
}
