package warehouse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imrishuroy/go-sales-ingest/internal/aws"
)

// SQS hands rows to a queue for a downstream loader. The table is the
// queue URL.
type SQS struct {
	publisher *aws.Publisher
}

// NewSQS returns an SQS inserter.
func NewSQS(publisher *aws.Publisher) *SQS {
	return &SQS{publisher: publisher}
}

// InsertRow sends row as a JSON message with an order_id attribute.
func (s *SQS) InsertRow(ctx context.Context, queueURL string, row map[string]any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	orderID, _ := row["order_id"].(string)
	attrs := map[string]string{"order_id": orderID}

	if err := s.publisher.SendMessage(ctx, queueURL, string(body), attrs); err != nil {
		return apiError(queueURL, "send message", err)
	}
	return nil
}
