package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-sales-ingest/internal/aws"
)

// DynamoDB writes rows as items. The table's partition key must be one of
// the row's attributes, normally order_id.
type DynamoDB struct {
	client aws.DynamoDBAPI
}

// NewDynamoDB returns a DynamoDB inserter.
func NewDynamoDB(client aws.DynamoDBAPI) *DynamoDB {
	return &DynamoDB{client: client}
}

// InsertRow puts row into table, overwriting any item with the same key.
func (d *DynamoDB) InsertRow(ctx context.Context, table string, row map[string]any) error {
	item, err := attributevalue.MarshalMap(row)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &table,
		Item:      item,
	})
	if err != nil {
		return apiError(table, "put item", err)
	}
	return nil
}

// apiError turns a service-side AWS error into *InsertError and wraps
// anything else (transport, cancellation).
func apiError(table, op string, err error) error {
	var sc smithy.APIError
	if errors.As(err, &sc) {
		return &InsertError{
			Table:  table,
			Errors: []string{fmt.Sprintf("%s: %s", sc.ErrorCode(), sc.ErrorMessage())},
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
