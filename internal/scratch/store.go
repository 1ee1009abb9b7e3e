// Package scratch holds pivoted matrices for the life of one request.
//
// Entries are keyed by (stock, report, horizon). Release removes an entry
// together with its per-stock bucket once the bucket is empty; a TTL
// bounds how long a forgotten entry survives.
package scratch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seenimoa/stockstrip/internal/config"
	"github.com/seenimoa/stockstrip/pkg/models"
)

// ErrNotFound is returned by Get for a missing or expired key.
var ErrNotFound = errors.New("scratch entry not found")

// Key identifies one matrix.
type Key struct {
	Stock  string
	Report models.FormType
	Year   string // horizon the matrix serves, e.g. "5y"
}

func (k Key) member() string { return string(k.Report) + ":" + k.Year }

func (k Key) String() string { return k.Stock + ":" + k.member() }

// Store is the scratch store contract. Concurrent writers under one key
// are not supported; the last Put wins.
type Store interface {
	Put(ctx context.Context, k Key, m *models.PivotedMatrix) error
	Get(ctx context.Context, k Key) (*models.PivotedMatrix, error)
	Release(ctx context.Context, k Key) error
	Close() error
}

// DefaultTTL applies when the configured TTL is not positive.
const DefaultTTL = 10 * time.Minute

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.ScratchConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLSec) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(ttl), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, ttl), nil
	}
	return nil, fmt.Errorf("unknown scratch backend %q", cfg.Backend)
}
