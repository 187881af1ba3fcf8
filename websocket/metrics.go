// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"equestrian-entries/logger"
)

// Namespace for all registration-service metrics
var metricsNamespace = "EquiEntries"

// Reuse a single CloudWatch client for all metrics calls
var cwClient = cloudwatch.New(session.Must(session.NewSession()))

// PublishActiveFormSessions pushes the number of open registration sessions
func PublishActiveFormSessions(count int, eventID string) {
	putMetric("ActiveFormSessions", float64(count), "Count", "EventID", eventID)
}

// PublishSubmissionLatency pushes the validate-to-upstream-accept time (in ms)
func PublishSubmissionLatency(latencyMs float64, eventID string) {
	putMetric("SubmissionLatencyMs", latencyMs, "Milliseconds", "EventID", eventID)
}

// PublishFeeBroadcastBacklog pushes a gauge for dropped fee broadcasts
func PublishFeeBroadcastBacklog(depth int, sessionID string) {
	putMetric("FeeBroadcastBacklog", float64(depth), "Count", "SessionID", sessionID)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit, dimName, dimValue string) {
	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String(dimName),
						Value: aws.String(dimValue),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
