//go:build integration

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"didregistry/internal/platform/postgres"
	"didregistry/pkg/testutil/containers"
)

func TestPostgresSinkWritesOutboxRows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pg := containers.NewPostgresContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.OpenSQL(ctx, pg.ConnStr)
	require.NoError(t, err)
	defer db.Close()

	sink := NewPostgresSink(db)
	require.NoError(t, sink.EnsureSchema(ctx))

	pub := NewPublisher(sink)
	defer pub.Close()

	require.NoError(t, pub.Emit(ctx, Event{
		Action:    ActionIdentityCreated,
		Principal: "ST1ALICE",
		Actor:     "ST1ALICE",
		DID:       "did:example:alice",
		Height:    7,
	}))
	require.NoError(t, pub.Emit(ctx, Event{
		Action:    ActionStatusSet,
		Principal: "ST1ALICE",
		Actor:     "ST1OWNER",
		Status:    true,
		Height:    9,
	}))

	rows, err := db.QueryContext(ctx, `
		SELECT action, principal, published
		FROM audit_outbox
		ORDER BY created_at, action`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		action    string
		principal string
		published bool
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.action, &r.principal, &r.published))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "ST1ALICE", r.principal)
		assert.False(t, r.published, "rows await the outbox relay")
	}
	actions := []string{got[0].action, got[1].action}
	assert.Contains(t, actions, string(ActionIdentityCreated))
	assert.Contains(t, actions, string(ActionStatusSet))
}
