//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPredictionTopic = "test-predictions"

// publishedEvent holds a deserialized message read from the prediction topic.
type publishedEvent struct {
	Event   domain.PredictionEvent
	Key     string
	Headers map[string]string
}

// readEvent reads a single message from the consumer and deserializes it.
func readEvent(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedEvent {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from prediction topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.PredictionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal prediction event")

	return publishedEvent{Event: event, Key: string(msg.Key), Headers: headers}
}

// TestWriterPublishesPredictionEvents verifies kafka.Writer round-trips
// success and error outcomes through a real broker.
func TestWriterPublishesPredictionEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPredictionTopic)

	cfg := &config.Config{
		KafkaBrokers:         []string{broker},
		KafkaPredictionTopic: testPredictionTopic,
	}
	metrics := observability.NewMetricsForTesting()
	writer := kafka.NewWriter(cfg, discardLogger(), metrics)
	t.Cleanup(func() { _ = writer.Close() })

	success := domain.NewPredictionEvent(domain.CategoryCyclone, "Miami", domain.PredictionResult{
		Likelihood:      domain.LikelihoodHigh,
		ConfidenceScore: 88,
		Explanation:     "Warm waters and low pressure.",
	}, nil)
	failure := domain.NewPredictionEvent(domain.CategoryCloudburst, "Kedarnath", domain.PredictionResult{},
		&domain.MalformedResponseError{Raw: "not json"})

	require.NoError(t, writer.Publish(ctx, success))
	require.NoError(t, writer.Publish(ctx, failure))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testPredictionTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := map[string]publishedEvent{}
	for len(got) < 2 {
		pe := readEvent(ctx, t, consumer)
		got[pe.Event.ID] = pe
	}

	ok := got[success.ID]
	assert.Equal(t, "cyclone", ok.Key)
	assert.Equal(t, "cyclone", ok.Headers["category"])
	assert.Equal(t, "success", ok.Headers["outcome"])
	_, err := time.Parse(time.RFC3339, ok.Headers["occurred_at"])
	assert.NoError(t, err, "occurred_at should be valid RFC3339")
	require.NotNil(t, ok.Event.Result)
	assert.Equal(t, 88, ok.Event.Result.ConfidenceScore)
	assert.Equal(t, "Miami", ok.Event.City)

	bad := got[failure.ID]
	assert.Equal(t, "cloudburst", bad.Key)
	assert.Equal(t, "error", bad.Headers["outcome"])
	assert.Nil(t, bad.Event.Result)
	assert.Equal(t, "Failed to parse AI response. Please try again.", bad.Event.Error)
}
