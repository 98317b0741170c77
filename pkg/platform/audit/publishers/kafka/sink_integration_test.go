//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "lifecover/pkg/platform/audit"
	"lifecover/pkg/platform/audit/publishers/kafka"
	"lifecover/pkg/testutil/containers"
)

func TestSinkProducesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	broker := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	const topic = "lifecover.audit.test"
	sink, err := kafka.New(ctx, broker.Brokers, topic)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close(context.Background()) })

	// A second sink on the same topic must tolerate the existing topic.
	again, err := kafka.New(ctx, broker.Brokers, topic)
	require.NoError(t, err)
	require.NoError(t, again.Close(ctx))

	event := audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Subject:   "rec-123",
		Action:    string(audit.EventRecommendationCreated),
		Decision:  "Term Life",
		IP:        "203.0.113.7",
		RequestID: "req-1",
	}
	require.NoError(t, sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollRecords(ctx, 1)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)

	assert.Equal(t, "rec-123", string(records[0].Key))
	var got map[string]any
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, "recommendation_created", got["action"])
	assert.Equal(t, "compliance", got["category"])
	assert.Equal(t, "Term Life", got["decision"])
	assert.Equal(t, "req-1", got["request_id"])
}
