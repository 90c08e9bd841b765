package verification

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "didregistry/pkg/domain"
)

// RedisStore keeps the verified-claims ledger in a Redis hash per principal.
// Claim texts become hash fields, which keeps arbitrary claim bytes safe
// without escaping.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func verifiedKey(principal id.Principal) string {
	return "registry:verified:" + principal.String()
}

func (s *RedisStore) MarkVerified(ctx context.Context, principal id.Principal, claim string) error {
	if err := s.client.HSet(ctx, verifiedKey(principal), claim, 1).Err(); err != nil {
		return fmt.Errorf("mark claim verified: %w", err)
	}
	return nil
}

func (s *RedisStore) IsVerified(ctx context.Context, principal id.Principal, claim string) (bool, error) {
	ok, err := s.client.HExists(ctx, verifiedKey(principal), claim).Result()
	if err != nil {
		return false, fmt.Errorf("check claim verified: %w", err)
	}
	return ok, nil
}
