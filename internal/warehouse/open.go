package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/imrishuroy/go-sales-ingest/internal/aws"
)

// Options selects and configures a driver.
type Options struct {
	Driver      string
	Table       string
	Project     string // bigquery: billing project; defaults to the table's project
	DatabaseURL string // postgres
	Timeout     time.Duration
	AWS         *aws.AWSClients // dynamodb, sqs
}

// Destination is an opened store ready to accept rows.
type Destination struct {
	// Name is the store's display name, used in response labels.
	Name     string
	Inserter RowInserter
	close    func()
}

// Close releases driver resources.
func (d *Destination) Close() {
	if d.close != nil {
		d.close()
	}
}

// Open builds the driver named by opts.Driver. The returned inserter applies
// opts.Timeout to every call.
func Open(ctx context.Context, opts Options) (*Destination, error) {
	var (
		name     string
		inserter RowInserter
		closeFn  func()
	)

	switch opts.Driver {
	case DriverBigQuery:
		project := opts.Project
		if project == "" {
			ref, err := parseTableID(opts.Table, "")
			if err != nil {
				return nil, err
			}
			project = ref.project
		}
		bq, err := NewBigQuery(ctx, project)
		if err != nil {
			return nil, err
		}
		name, inserter, closeFn = "BigQuery", bq, func() { _ = bq.Close() }

	case DriverDynamoDB:
		if opts.AWS == nil {
			return nil, fmt.Errorf("driver %s needs AWS clients", opts.Driver)
		}
		name, inserter = "DynamoDB", NewDynamoDB(opts.AWS.DynamoDB)

	case DriverSQS:
		if opts.AWS == nil {
			return nil, fmt.Errorf("driver %s needs AWS clients", opts.Driver)
		}
		name, inserter = "SQS", NewSQS(aws.NewPublisher(opts.AWS.SQS))

	case DriverPostgres:
		if err := checkPostgresTable(opts.Table); err != nil {
			return nil, err
		}
		pg, err := NewPostgres(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureTable(ctx, opts.Table); err != nil {
			pg.Close()
			return nil, err
		}
		name, inserter, closeFn = "PostgreSQL", pg, pg.Close

	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", opts.Driver)
	}

	return &Destination{
		Name:     name,
		Inserter: WithTimeout(inserter, opts.Timeout),
		close:    closeFn,
	}, nil
}
