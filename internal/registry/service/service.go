package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"didregistry/internal/audit"
	registrymetrics "didregistry/internal/registry/metrics"
	"didregistry/internal/registry/models"
	id "didregistry/pkg/domain"
	dErrors "didregistry/pkg/domain-errors"
	"didregistry/pkg/platform/sentinel"
	"didregistry/pkg/requestcontext"
)

// IdentityStore persists identity records and the registry counter.
type IdentityStore interface {
	Create(ctx context.Context, identity *models.Identity) error
	Find(ctx context.Context, principal id.Principal) (*models.Identity, error)
	Update(ctx context.Context, identity *models.Identity) error
	Count(ctx context.Context) (uint64, error)
}

// VerificationStore is the append-only verified-claims ledger. It is
// deliberately decoupled from the identity record's claim list.
type VerificationStore interface {
	MarkVerified(ctx context.Context, principal id.Principal, claim string) error
	IsVerified(ctx context.Context, principal id.Principal, claim string) (bool, error)
}

// AuditEmitter records registry mutations. Emission is best-effort: an audit
// failure never rolls back a committed mutation.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the identity registry state machine. All mutations run inside a
// single transaction boundary; reads observe fully committed state.
type Service struct {
	identities    IdentityStore
	verifications VerificationStore
	owner         id.Principal
	tx            StoreTx
	metrics       *registrymetrics.Metrics
	auditor       AuditEmitter
	logger        *slog.Logger
	tracer        trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditEmitter(a AuditEmitter) Option {
	return func(s *Service) { s.auditor = a }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// New constructs the registry service. owner is the single principal
// authorized to perform verification operations, fixed for the lifetime of
// the service.
func New(identities IdentityStore, verifications VerificationStore, owner id.Principal, opts ...Option) *Service {
	s := &Service{
		identities:    identities,
		verifications: verifications,
		owner:         owner,
		tracer:        otel.Tracer("didregistry/registry"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newExclusiveTx()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Create registers a new identity for the caller. The registry counter
// advances exactly once per successful create.
func (s *Service) Create(ctx context.Context, caller id.Principal, did string) error {
	ctx, span := s.tracer.Start(ctx, "registry.create")
	defer span.End()

	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller principal is required")
	}
	height := requestcontext.Height(ctx)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Validation and the existence check both complete before any write;
		// either failing aborts with no mutation.
		identity, err := models.NewIdentity(caller, did, height)
		if err != nil {
			return err
		}
		if err := s.identities.Create(ctx, identity); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeAlreadyExists, "identity already registered for principal")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create identity")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncIdentitiesCreated()
	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionIdentityCreated,
		Principal: caller,
		Actor:     caller,
		DID:       did,
		Height:    height,
	})
	return nil
}

// UpdateDID replaces the caller's DID.
func (s *Service) UpdateDID(ctx context.Context, caller id.Principal, newDID string) error {
	ctx, span := s.tracer.Start(ctx, "registry.update_did")
	defer span.End()

	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller principal is required")
	}
	height := requestcontext.Height(ctx)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		identity, err := s.findIdentity(ctx, caller, dErrors.CodeNotFound)
		if err != nil {
			return err
		}
		if err := identity.SetDID(newDID, height); err != nil {
			return err
		}
		return s.saveIdentity(ctx, identity)
	})
	if err != nil {
		return err
	}

	s.metrics.IncDIDUpdates()
	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionDIDUpdated,
		Principal: caller,
		Actor:     caller,
		DID:       newDID,
		Height:    height,
	})
	return nil
}

// AddClaim appends a claim to the caller's record. At the 10-claim capacity
// the call still succeeds but nothing is written: the contract silently caps
// the list, and the return value does not distinguish the two outcomes.
func (s *Service) AddClaim(ctx context.Context, caller id.Principal, claim string) error {
	ctx, span := s.tracer.Start(ctx, "registry.add_claim")
	defer span.End()

	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller principal is required")
	}
	height := requestcontext.Height(ctx)

	var added bool
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		identity, err := s.findIdentity(ctx, caller, dErrors.CodeNotFound)
		if err != nil {
			return err
		}
		added, err = identity.AppendClaim(claim, height)
		if err != nil {
			return err
		}
		if !added {
			return nil
		}
		return s.saveIdentity(ctx, identity)
	})
	if err != nil {
		return err
	}

	event := audit.Event{
		Action:    audit.ActionClaimAdded,
		Principal: caller,
		Actor:     caller,
		Claim:     claim,
		Height:    height,
	}
	if added {
		s.metrics.IncClaimsAppended()
	} else {
		s.metrics.IncClaimsCapped()
		event.Action = audit.ActionClaimCapped
	}
	s.emitAudit(ctx, event)
	return nil
}

// SetVerificationStatus writes the identity-level verification flag.
// Owner-only; redundant writes are permitted.
func (s *Service) SetVerificationStatus(ctx context.Context, caller, principal id.Principal, status bool) error {
	ctx, span := s.tracer.Start(ctx, "registry.set_verification_status")
	defer span.End()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	height := requestcontext.Height(ctx)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		identity, err := s.findIdentity(ctx, principal, dErrors.CodeInvalidUser)
		if err != nil {
			return err
		}
		identity.SetVerificationStatus(status, height)
		return s.saveIdentity(ctx, identity)
	})
	if err != nil {
		return err
	}

	s.metrics.IncStatusWrites()
	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionStatusSet,
		Principal: principal,
		Actor:     caller,
		Status:    status,
		Height:    height,
	})
	return nil
}

// VerifyClaim marks (principal, claim) verified in the claims ledger.
// Owner-only. The claim need not appear in the identity's own claim list;
// verification is keyed by literal text match. Idempotent.
func (s *Service) VerifyClaim(ctx context.Context, caller, principal id.Principal, claim string) error {
	ctx, span := s.tracer.Start(ctx, "registry.verify_claim")
	defer span.End()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	height := requestcontext.Height(ctx)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.findIdentity(ctx, principal, dErrors.CodeInvalidUser); err != nil {
			return err
		}
		if err := models.ValidateClaim(claim); err != nil {
			return err
		}
		if err := s.verifications.MarkVerified(ctx, principal, claim); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark claim verified")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncClaimsVerified()
	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionClaimVerified,
		Principal: principal,
		Actor:     caller,
		Claim:     claim,
		Height:    height,
	})
	return nil
}

// GetIdentity returns the record for a principal, or found=false when none
// exists. This is the one read that tolerates a missing principal without
// signaling failure; GetAllClaims and IsIdentityVerified fail instead. The
// asymmetry is inherited contract behavior, preserved deliberately.
func (s *Service) GetIdentity(ctx context.Context, principal id.Principal) (*models.Identity, bool, error) {
	identity, err := s.identities.Find(ctx, principal)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	return identity, true, nil
}

// GetAllClaims returns the identity's own claim list in insertion order.
func (s *Service) GetAllClaims(ctx context.Context, principal id.Principal) ([]string, error) {
	identity, err := s.findIdentity(ctx, principal, dErrors.CodeNotFound)
	if err != nil {
		return nil, err
	}
	return identity.Claims, nil
}

// IsClaimVerified reports whether (principal, claim) is in the verified
// ledger. Never fails: unknown principals and unverified claims are false.
func (s *Service) IsClaimVerified(ctx context.Context, principal id.Principal, claim string) (bool, error) {
	ok, err := s.verifications.IsVerified(ctx, principal, claim)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check claim verification")
	}
	return ok, nil
}

// IsIdentityVerified returns the identity-level verification flag.
func (s *Service) IsIdentityVerified(ctx context.Context, principal id.Principal) (bool, error) {
	identity, err := s.findIdentity(ctx, principal, dErrors.CodeNotFound)
	if err != nil {
		return false, err
	}
	return identity.VerificationStatus, nil
}

// Count returns how many identities were ever created.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	count, err := s.identities.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registry counter")
	}
	return count, nil
}

// Owner returns the fixed authorized verifier principal.
func (s *Service) Owner() id.Principal { return s.owner }

func (s *Service) requireOwner(caller id.Principal) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller principal is required")
	}
	if caller != s.owner {
		return dErrors.New(dErrors.CodeNotAuthorized, "caller is not the registry owner")
	}
	return nil
}

// findIdentity loads a record, translating a miss into the given code:
// CodeNotFound on self/read paths, CodeInvalidUser on owner-only paths. Same
// underlying condition, distinct codes, per the registry contract.
func (s *Service) findIdentity(ctx context.Context, principal id.Principal, missCode dErrors.Code) (*models.Identity, error) {
	identity, err := s.identities.Find(ctx, principal)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(missCode, "no identity registered for principal")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	return identity, nil
}

func (s *Service) saveIdentity(ctx context.Context, identity *models.Identity) error {
	if err := s.identities.Update(ctx, identity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save identity")
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"principal", event.Principal,
			"error", err,
		)
	}
}
