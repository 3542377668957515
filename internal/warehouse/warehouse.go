// Package warehouse forwards enriched rows to the analytical store.
package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Supported drivers.
const (
	DriverBigQuery = "bigquery"
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverSQS      = "sqs"
)

// RowInserter writes one row to a table. A nil error means the store
// acknowledged the row.
type RowInserter interface {
	InsertRow(ctx context.Context, table string, row map[string]any) error
}

// InsertError is returned when the store answered but rejected the row.
// Errors holds every reason the store gave, in the order it gave them.
type InsertError struct {
	Table  string
	Errors []string
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert into %s rejected: %s", e.Table, strings.Join(e.Errors, "; "))
}

// WithTimeout bounds every InsertRow call on next by d. d <= 0 disables the bound.
func WithTimeout(next RowInserter, d time.Duration) RowInserter {
	if d <= 0 {
		return next
	}
	return &timeoutInserter{next: next, timeout: d}
}

type timeoutInserter struct {
	next    RowInserter
	timeout time.Duration
}

func (t *timeoutInserter) InsertRow(ctx context.Context, table string, row map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.InsertRow(ctx, table, row)
}
