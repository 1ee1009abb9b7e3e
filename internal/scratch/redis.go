package scratch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/seenimoa/stockstrip/pkg/models"
)

const keyPrefix = "scratch:"

// RedisStore keeps msgpack-encoded matrices in redis. Each stock has an
// index set listing its live members so Release can drop the bucket.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client. The store owns the client from then on.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func entryKey(k Key) string { return keyPrefix + k.String() }

func indexKey(stock string) string { return keyPrefix + stock + ":index" }

// Put encodes m and stores it under k with the store TTL.
func (s *RedisStore) Put(ctx context.Context, k Key, m *models.PivotedMatrix) error {
	b, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode matrix %s: %w", k, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, entryKey(k), b, s.ttl)
	pipe.SAdd(ctx, indexKey(k.Stock), k.member())
	pipe.Expire(ctx, indexKey(k.Stock), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store matrix %s: %w", k, err)
	}
	return nil
}

// Get returns the matrix under k.
func (s *RedisStore) Get(ctx context.Context, k Key) (*models.PivotedMatrix, error) {
	b, err := s.client.Get(ctx, entryKey(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load matrix %s: %w", k, err)
	}
	var m models.PivotedMatrix
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode matrix %s: %w", k, err)
	}
	toUTC(&m)
	return &m, nil
}

// toUTC restores the UTC zone msgpack drops: times decode in time.Local.
func toUTC(m *models.PivotedMatrix) {
	for i, c := range m.Columns {
		m.Columns[i] = c.UTC()
	}
	for i, f := range m.Selection.Filings {
		m.Selection.Filings[i].ReportDate = f.ReportDate.UTC()
	}
}

// Release deletes k and removes the stock index once no member remains.
func (s *RedisStore) Release(ctx context.Context, k Key) error {
	idx := indexKey(k.Stock)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, entryKey(k))
	pipe.SRem(ctx, idx, k.member())
	card := pipe.SCard(ctx, idx)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("release matrix %s: %w", k, err)
	}
	if card.Val() == 0 {
		if err := s.client.Del(ctx, idx).Err(); err != nil {
			return fmt.Errorf("release index %s: %w", k.Stock, err)
		}
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error { return s.client.Close() }
