package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"didregistry/internal/platform/kafka"
)

// KafkaSink publishes audit events to the audit topic, keyed by subject
// principal so per-identity ordering is preserved within a partition.
type KafkaSink struct {
	producer *kafka.Producer
}

func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if err := s.producer.Publish(ctx, event.Principal.String(), payload); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}
