package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jannat-miftahul/plantnet/internal/domain"
)

// backupKey is where the last good snapshot is persisted.
const backupKey = "plantnet:catalog:snapshot"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// Backup persists the last good catalog snapshot to Redis so a restart can
// serve the storefront before the upstream source is reachable.
type Backup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBackup creates a snapshot backup with the given TTL. A zero TTL means
// the snapshot never expires.
func NewBackup(client *redis.Client, ttl time.Duration) *Backup {
	return &Backup{client: client, ttl: ttl}
}

// Save stores the snapshot as a JSON blob.
func (b *Backup) Save(ctx context.Context, products []domain.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := b.client.Set(ctx, backupKey, payload, b.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load restores the last saved snapshot. It returns (nil, nil) when no
// snapshot has been saved.
func (b *Backup) Load(ctx context.Context) ([]domain.Product, error) {
	payload, err := b.client.Get(ctx, backupKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return products, nil
}

// Ping verifies the Redis connection, for readiness checks.
func (b *Backup) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
