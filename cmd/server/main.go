package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"didregistry/internal/audit"
	"didregistry/internal/auth"
	authhandler "didregistry/internal/auth/handler"
	"didregistry/internal/auth/secrets"
	httptransport "didregistry/internal/http"
	"didregistry/internal/platform/chainclock"
	"didregistry/internal/platform/config"
	"didregistry/internal/platform/httpserver"
	"didregistry/internal/platform/kafka"
	"didregistry/internal/platform/logger"
	"didregistry/internal/platform/postgres"
	"didregistry/internal/platform/redis"
	registryhandler "didregistry/internal/registry/handler"
	registrymetrics "didregistry/internal/registry/metrics"
	"didregistry/internal/registry/service"
	identitystore "didregistry/internal/registry/store/identity"
	verificationstore "didregistry/internal/registry/store/verification"
	id "didregistry/pkg/domain"
)

const (
	blockInterval   = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	devIssueSecret  = "dev-issuance-secret"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner, err := id.ParsePrincipal(cfg.OwnerPrincipal)
	if err != nil {
		return errors.New("DID_REGISTRY_OWNER must be set to the verifier principal")
	}

	clock := chainclock.New(cfg.StartHeight)
	health := map[string]httptransport.HealthChecker{}

	// Identity store: Postgres when configured, in-memory otherwise.
	var identities service.IdentityStore = identitystore.NewInMemory()
	if cfg.Postgres.URL != "" {
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := identitystore.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		identities = store
		health["postgres"] = healthFunc(pool.Ping)
	}

	// Verified-claims ledger: Redis when configured.
	var verifications service.VerificationStore = verificationstore.NewInMemory()
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		verifications = verificationstore.NewRedis(redisClient.Client)
		health["redis"] = redisClient
	}

	// Audit trail: Kafka when brokers are configured, the Postgres outbox as a
	// fallback, the in-memory sink for standalone runs.
	sink, closeSink, err := buildAuditSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()
	publisher := audit.NewPublisher(sink, audit.WithAsyncBuffer(256))
	defer publisher.Close()

	svc := service.New(identities, verifications, owner,
		service.WithMetrics(registrymetrics.New()),
		service.WithAuditEmitter(publisher),
		service.WithLogger(log),
	)

	tokens := auth.NewTokenManager(cfg.JWTSigningKey, "didregistry")
	secretHash := cfg.TokenIssueSecretHash
	if secretHash == "" {
		log.Warn("TOKEN_ISSUE_SECRET_HASH not set, using development issuance secret")
		if secretHash, err = secrets.Hash(devIssueSecret); err != nil {
			return err
		}
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Registry:  registryhandler.New(svc, log),
		Auth:      authhandler.New(tokens, secretHash, log),
		Clock:     clock,
		Validator: tokens,
		Logger:    log,
		Health:    health,
	})
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting did registry",
		"addr", cfg.Addr,
		"owner", owner,
		"start_height", cfg.StartHeight,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return clock.Run(ctx, blockInterval)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func buildAuditSink(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Sink, func(), error) {
	switch {
	case len(cfg.Kafka.Brokers) > 0:
		producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return nil, nil, err
		}
		return audit.NewKafkaSink(producer), producer.Close, nil
	case cfg.Postgres.URL != "":
		db, err := postgres.OpenSQL(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		sink := audit.NewPostgresSink(db)
		if err := sink.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sink, func() { db.Close() }, nil
	default:
		log.Info("no audit backend configured, events stay in memory")
		return audit.NewInMemorySink(), func() {}, nil
	}
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }
