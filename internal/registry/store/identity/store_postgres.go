package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"didregistry/internal/registry/models"
	id "didregistry/pkg/domain"
	"didregistry/pkg/platform/sentinel"
)

// PostgresStore persists identity records and the registry counter. Create
// runs the insert and the counter bump in one transaction so a failed insert
// never advances the counter.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS identities (
	principal           TEXT PRIMARY KEY,
	did                 TEXT NOT NULL,
	verification_status BOOLEAN NOT NULL DEFAULT FALSE,
	claims              TEXT[] NOT NULL DEFAULT '{}',
	created_at          BIGINT NOT NULL,
	updated_at          BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS registry_counter (
	id    SMALLINT PRIMARY KEY CHECK (id = 1),
	total BIGINT NOT NULL DEFAULT 0
);

INSERT INTO registry_counter (id, total) VALUES (1, 0) ON CONFLICT (id) DO NOTHING;
`

// EnsureSchema creates the tables this store needs. Called at startup and by
// integration tests.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure identity schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, identity *models.Identity) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO identities (principal, did, verification_status, claims, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (principal) DO NOTHING`,
		identity.Principal, identity.DID, identity.VerificationStatus,
		identity.Claims, identity.CreatedAt, identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrConflict
	}

	if _, err := tx.Exec(ctx, `UPDATE registry_counter SET total = total + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("increment registry counter: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Find(ctx context.Context, principal id.Principal) (*models.Identity, error) {
	identity := &models.Identity{Principal: principal}
	err := s.pool.QueryRow(ctx, `
		SELECT did, verification_status, claims, created_at, updated_at
		FROM identities WHERE principal = $1`,
		principal,
	).Scan(&identity.DID, &identity.VerificationStatus, &identity.Claims,
		&identity.CreatedAt, &identity.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if identity.Claims == nil {
		identity.Claims = []string{}
	}
	return identity, nil
}

func (s *PostgresStore) Update(ctx context.Context, identity *models.Identity) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE identities
		SET did = $2, verification_status = $3, claims = $4, updated_at = $5
		WHERE principal = $1`,
		identity.Principal, identity.DID, identity.VerificationStatus,
		identity.Claims, identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var total uint64
	if err := s.pool.QueryRow(ctx, `SELECT total FROM registry_counter WHERE id = 1`).Scan(&total); err != nil {
		return 0, fmt.Errorf("read registry counter: %w", err)
	}
	return total, nil
}
