package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from its environment so main
// stays lean.
type Config struct {
	Addr string

	// OwnerPrincipal is the single principal authorized to perform
	// verification operations. Fixed at deployment time, compared by equality.
	OwnerPrincipal string

	// JWTSigningKey signs and validates caller tokens.
	JWTSigningKey string

	// TokenIssueSecretHash is the bcrypt hash of the shared secret accepted by
	// POST /auth/token. Empty falls back to a development secret.
	TokenIssueSecretHash string

	// StartHeight seeds the logical chain clock.
	StartHeight uint64

	LogLevel string

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig holds connection settings for the optional Postgres-backed
// stores. Empty URL means in-memory stores are used.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds connection settings for the optional Redis-backed
// verified-claims store. Empty URL means the in-memory store is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the audit event publisher. Empty Brokers
// means audit events stay in the in-memory sink.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:                 envOr("DID_REGISTRY_ADDR", ":8080"),
		OwnerPrincipal:       os.Getenv("DID_REGISTRY_OWNER"),
		JWTSigningKey:        os.Getenv("JWT_SIGNING_KEY"),
		TokenIssueSecretHash: os.Getenv("TOKEN_ISSUE_SECRET_HASH"),
		LogLevel:             envOr("LOG_LEVEL", "info"),
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			AuditTopic: envOr("AUDIT_TOPIC", "registry.audit"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}

	if raw := os.Getenv("DID_REGISTRY_START_HEIGHT"); raw != "" {
		if height, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cfg.StartHeight = height
		}
	}

	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
