package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_SyncMode(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink)
	defer pub.Close()

	err := pub.Emit(context.Background(), Event{
		Action:    ActionIdentityCreated,
		Principal: "ST1ALICE",
		Height:    7,
	})
	require.NoError(t, err)

	events := sink.ListByPrincipal(context.Background(), "ST1ALICE")
	require.Len(t, events, 1)
	assert.Equal(t, ActionIdentityCreated, events[0].Action)
	assert.NotEmpty(t, events[0].ID, "publisher stamps an event ID")
	assert.False(t, events[0].Timestamp.IsZero(), "publisher stamps a timestamp")
}

func TestPublisher_AsyncMode(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink, WithAsyncBuffer(10))
	defer pub.Close()

	err := pub.Emit(context.Background(), Event{
		Action:    ActionClaimVerified,
		Principal: "ST1ALICE",
		Claim:     "kyc-passed",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(sink.ListByPrincipal(context.Background(), "ST1ALICE")) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink, WithAsyncBuffer(100))

	for i := 0; i < 10; i++ {
		err := pub.Emit(context.Background(), Event{
			Action:    ActionClaimAdded,
			Principal: "ST1ALICE",
		})
		require.NoError(t, err)
	}

	pub.Close()
	assert.Equal(t, 10, sink.Len(), "close drains buffered events")

	// Idempotent close.
	pub.Close()
}
