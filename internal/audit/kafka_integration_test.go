//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"didregistry/internal/platform/kafka"
	"didregistry/pkg/testutil/containers"
)

func TestKafkaSinkPublishesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	broker := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "registry.audit.test"
	producer, err := kafka.NewProducer(ctx, []string{broker.Broker}, topic)
	require.NoError(t, err)
	defer producer.Close()

	pub := NewPublisher(NewKafkaSink(producer))
	defer pub.Close()

	require.NoError(t, pub.Emit(ctx, Event{
		Action:    ActionClaimVerified,
		Principal: "ST1ALICE",
		Actor:     "ST1OWNER",
		Claim:     "kyc-passed",
		Height:    42,
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)

	assert.Equal(t, "ST1ALICE", string(records[0].Key), "events are keyed by subject principal")

	var event Event
	require.NoError(t, json.Unmarshal(records[0].Value, &event))
	assert.Equal(t, ActionClaimVerified, event.Action)
	assert.Equal(t, "kyc-passed", event.Claim)
	assert.Equal(t, uint64(42), event.Height)
	assert.NotEmpty(t, event.ID)
}
