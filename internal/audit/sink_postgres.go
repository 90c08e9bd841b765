package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresSink writes audit events to an outbox table. A relay (external to
// this service) moves outbox rows to the audit topic; keeping the write local
// lets audit share the database's durability story when Kafka is down.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

const outboxSchema = `
CREATE TABLE IF NOT EXISTS audit_outbox (
	id         UUID PRIMARY KEY,
	action     TEXT NOT NULL,
	principal  TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	published  BOOLEAN NOT NULL DEFAULT FALSE
);
`

// EnsureSchema creates the outbox table. Called at startup and by integration
// tests.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, outboxSchema); err != nil {
		return fmt.Errorf("ensure audit outbox schema: %w", err)
	}
	return nil
}

func (s *PostgresSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_outbox (id, action, principal, payload)
		VALUES ($1, $2, $3, $4)`,
		event.ID, string(event.Action), event.Principal.String(), payload,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
