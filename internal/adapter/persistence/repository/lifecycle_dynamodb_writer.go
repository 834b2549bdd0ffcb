package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"erp_lifecycle/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	guardQuoteOrder    = "quote-order"
	guardInvoiceNumber = "invoice-number"
	guardAccessKey     = "access-key"
)

var errRecordExists = errors.New("record id already exists")

// guardItem claims a unique value. Its id is "<kind>#<value>" so a second
// claim of the same value fails the conditional put.
type guardItem struct {
	ID        string `dynamodbav:"id"`
	Kind      string `dynamodbav:"kind"`
	OwnerID   string `dynamodbav:"owner_id"`
	CreatedAt string `dynamodbav:"created_at"`
}

func guardID(kind, value string) string {
	return kind + "#" + value
}

// LifecycleDynamoWriter commits lifecycle batches with TransactWriteItems.
//
// Uniqueness (one order per quote, invoice number, access key) is enforced by
// guard items written in the same transaction, and balance updates are
// conditioned on the order version that was read.

type LifecycleDynamoWriter struct {
	ddb    DynamoAPI
	tables Tables
}

var _ interfaces.ILifecycleWriter = (*LifecycleDynamoWriter)(nil)

func NewLifecycleDynamoWriter(ddb DynamoAPI, tables Tables) *LifecycleDynamoWriter {
	return &LifecycleDynamoWriter{ddb: ddb, tables: tables}
}

// transactItem pairs a write with the error reported when its condition fails.
type transactItem struct {
	item       types.TransactWriteItem
	onConflict error
	// onMissing is reported instead of onConflict when the target item is absent.
	onMissing error
}

func (w *LifecycleDynamoWriter) Commit(ctx context.Context, b interfaces.LifecycleBatch) error {
	if b.Empty() {
		return nil
	}
	items, err := w.build(b)
	if err != nil {
		return err
	}

	writes := make([]types.TransactWriteItem, len(items))
	for i, it := range items {
		writes[i] = it.item
	}
	_, err = w.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err == nil {
		return nil
	}
	return conflictFromCancellation(err, items)
}

func (w *LifecycleDynamoWriter) build(b interfaces.LifecycleBatch) ([]transactItem, error) {
	now := nowString()
	var items []transactItem

	if o := b.NewOrder; o != nil {
		put, err := w.putNew(w.tables.Orders, toOrderItem(*o))
		if err != nil {
			return nil, err
		}
		items = append(items, transactItem{item: put, onConflict: errRecordExists})
		if o.QuoteID != "" {
			guard, err := w.putGuard(guardQuoteOrder, o.QuoteID, o.ID, now)
			if err != nil {
				return nil, err
			}
			items = append(items, transactItem{item: guard, onConflict: interfaces.ErrQuoteAlreadyOrdered})
		}
	}

	if c := b.QuoteStatus; c != nil {
		items = append(items, transactItem{
			item: types.TransactWriteItem{Update: &types.Update{
				TableName:           aws.String(w.tables.Quotes),
				Key:                 idKey(c.QuoteID),
				ConditionExpression: aws.String("attribute_exists(#id)"),
				UpdateExpression:    aws.String("SET #status = :status, #updated_at = :updated_at"),
				ExpressionAttributeNames: map[string]string{
					"#id":         "id",
					"#status":     "status",
					"#updated_at": "updated_at",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":status":     &types.AttributeValueMemberS{Value: string(c.Status)},
					":updated_at": &types.AttributeValueMemberS{Value: now},
				},
			}},
			onConflict: interfaces.ErrMissingBatchTarget,
		})
	}

	if inv := b.NewInvoice; inv != nil {
		put, err := w.putNew(w.tables.Invoices, toInvoiceItem(*inv))
		if err != nil {
			return nil, err
		}
		items = append(items, transactItem{item: put, onConflict: errRecordExists})

		guard, err := w.putGuard(guardInvoiceNumber, inv.InvoiceNumber, inv.ID, now)
		if err != nil {
			return nil, err
		}
		items = append(items, transactItem{item: guard, onConflict: interfaces.ErrInvoiceNumberTaken})

		if inv.AccessKey != "" {
			guard, err := w.putGuard(guardAccessKey, inv.AccessKey, inv.ID, now)
			if err != nil {
				return nil, err
			}
			items = append(items, transactItem{item: guard, onConflict: interfaces.ErrAccessKeyTaken})
		}
	}

	if c := b.OrderBalance; c != nil {
		cond := "attribute_exists(#id) AND #version = :expected"
		if c.ExpectedVersion == 0 {
			cond = "attribute_exists(#id) AND (attribute_not_exists(#version) OR #version = :expected)"
		}
		items = append(items, transactItem{
			item: types.TransactWriteItem{Update: &types.Update{
				TableName:           aws.String(w.tables.Orders),
				Key:                 idKey(c.OrderID),
				ConditionExpression: aws.String(cond),
				UpdateExpression:    aws.String("SET #outstanding = :outstanding, #status = :status, #version = :next, #updated_at = :updated_at"),
				ExpressionAttributeNames: map[string]string{
					"#id":          "id",
					"#outstanding": "outstanding",
					"#status":      "status",
					"#version":     "version",
					"#updated_at":  "updated_at",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":outstanding": &types.AttributeValueMemberS{Value: formatMoney(c.Outstanding)},
					":status":      &types.AttributeValueMemberS{Value: string(c.Status)},
					":expected":    &types.AttributeValueMemberN{Value: strconv.FormatInt(c.ExpectedVersion, 10)},
					":next":        &types.AttributeValueMemberN{Value: strconv.FormatInt(c.ExpectedVersion+1, 10)},
					":updated_at":  &types.AttributeValueMemberS{Value: now},
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			}},
			onConflict: interfaces.ErrStaleOrder,
			onMissing:  interfaces.ErrMissingBatchTarget,
		})
	}

	if c := b.InvoiceStatus; c != nil {
		items = append(items, transactItem{
			item: types.TransactWriteItem{Update: &types.Update{
				TableName:           aws.String(w.tables.Invoices),
				Key:                 idKey(c.InvoiceID),
				ConditionExpression: aws.String("attribute_exists(#id) AND #status = :from"),
				UpdateExpression:    aws.String("SET #status = :to"),
				ExpressionAttributeNames: map[string]string{
					"#id":     "id",
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":from": &types.AttributeValueMemberS{Value: string(c.From)},
					":to":   &types.AttributeValueMemberS{Value: string(c.To)},
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			}},
			onConflict: interfaces.ErrStaleInvoice,
			onMissing:  interfaces.ErrMissingBatchTarget,
		})
	}

	return items, nil
}

func (w *LifecycleDynamoWriter) putNew(table string, item any) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:           aws.String(table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	}}, nil
}

func (w *LifecycleDynamoWriter) putGuard(kind, value, ownerID, now string) (types.TransactWriteItem, error) {
	return w.putNew(w.tables.Guards, guardItem{
		ID:        guardID(kind, value),
		Kind:      kind,
		OwnerID:   ownerID,
		CreatedAt: now,
	})
}

// conflictFromCancellation maps the first failed condition of a cancelled
// transaction to the error registered for that write. Cancellation reasons
// are positional: reason i belongs to item i.
func conflictFromCancellation(err error, items []transactItem) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return err
	}
	for i, reason := range tce.CancellationReasons {
		if i >= len(items) || aws.ToString(reason.Code) != "ConditionalCheckFailed" {
			continue
		}
		if items[i].onMissing != nil && len(reason.Item) == 0 {
			return items[i].onMissing
		}
		return items[i].onConflict
	}
	return fmt.Errorf("transaction cancelled: %w", err)
}
