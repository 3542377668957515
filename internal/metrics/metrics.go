// Package metrics publishes per-request outcome counts to CloudWatch.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-ingest/internal/aws"
)

// Outcome values used as the Outcome dimension.
const (
	OutcomeLoaded   = "loaded"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// MetricName is the CloudWatch metric every request increments.
const MetricName = "Requests"

// Recorder counts request outcomes.
type Recorder interface {
	Record(ctx context.Context, outcome string) error
}

// CloudWatch records outcomes with PutMetricData.
type CloudWatch struct {
	client    aws.CloudWatchAPI
	namespace string
}

// NewCloudWatch returns a Recorder publishing into namespace.
func NewCloudWatch(client aws.CloudWatchAPI, namespace string) *CloudWatch {
	return &CloudWatch{client: client, namespace: namespace}
}

// Record publishes a single count of 1 for outcome.
func (cw *CloudWatch) Record(ctx context.Context, outcome string) error {
	_, err := cw.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(cw.namespace),
		MetricData: []cwtypes.MetricDatum{{
			MetricName: sdkaws.String(MetricName),
			Dimensions: []cwtypes.Dimension{{
				Name:  sdkaws.String("Outcome"),
				Value: sdkaws.String(outcome),
			}},
			Unit:      cwtypes.StandardUnitCount,
			Value:     sdkaws.Float64(1),
			Timestamp: sdkaws.Time(time.Now().UTC()),
		}},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

// Classify maps a response status to an outcome.
func Classify(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return OutcomeFailed
	case status >= http.StatusBadRequest:
		return OutcomeRejected
	default:
		return OutcomeLoaded
	}
}

// Middleware records the outcome of every request after the handler
// returns, bounded by timeout. Failures are only logged.
//
// With async set the publish runs in the background so CloudWatch latency
// never reaches the client. That is only safe for a long-lived process: a
// Lambda execution environment is frozen once the invocation returns, which
// would strand the goroutine, so Lambda mode records inline.
func Middleware(rec Recorder, timeout time.Duration, async bool, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		outcome := Classify(c.Writer.Status())
		record := func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := rec.Record(ctx, outcome); err != nil {
				log.Warnw("metric not recorded", "outcome", outcome, "error", err)
			}
		}
		if async {
			go record()
			return
		}
		record()
	}
}
