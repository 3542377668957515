package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Publisher wraps an SQS client.
type Publisher struct {
	SQS SQSAPI
}

// NewPublisher returns a Publisher backed by sqsClient.
func NewPublisher(sqsClient SQSAPI) *Publisher {
	return &Publisher{SQS: sqsClient}
}

// SendMessage sends messageBody (a JSON document) to queueURL.
// attributes are sent as String MessageAttributes; empty values are skipped
// because SQS rejects attributes without a value.
func (p *Publisher) SendMessage(ctx context.Context, queueURL, messageBody string, attributes map[string]string) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    &queueURL,
		MessageBody: &messageBody,
	}
	if len(attributes) > 0 {
		msgAttrs := map[string]sqstypes.MessageAttributeValue{}
		for k, v := range attributes {
			if v == "" {
				continue
			}
			msgAttrs[k] = sqstypes.MessageAttributeValue{
				DataType:    awsString("String"),
				StringValue: awsString(v),
			}
		}
		input.MessageAttributes = msgAttrs
	}

	_, err := p.SQS.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
