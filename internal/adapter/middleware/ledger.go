package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// entry is one idempotency record. Pending entries hold the key while the
// handler runs; completed ones carry the response to replay.
type entry struct {
	Pending     bool      `json:"pending"`
	Route       string    `json:"route"`
	Status      int       `json:"status,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	StoredAt    time.Time `json:"stored_at"`
}

// ledger keeps idempotency entries in redis, one string key per
// method, route and request id.
type ledger struct {
	rdb     *redis.Client
	prefix  string
	lockTTL time.Duration
	ttl     time.Duration
}

func (l *ledger) key(method, route, requestID string) string {
	return l.prefix + strings.ToLower(method) + ":" + route + ":" + requestID
}

// reserve stores a pending entry unless the key is taken.
func (l *ledger) reserve(ctx context.Context, key string, e entry) (bool, error) {
	e.Pending = true
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return l.rdb.SetNX(ctx, key, payload, l.lockTTL).Result()
}

// load returns the entry at key. A key that vanished between reserve and load
// is reported as a pending entry so the caller answers 409.
func (l *ledger) load(ctx context.Context, key string) (entry, error) {
	var e entry
	raw, err := l.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entry{Pending: true}, nil
	}
	if err != nil {
		return entry{Pending: true}, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{Pending: true}, err
	}
	return e, nil
}

func (l *ledger) complete(ctx context.Context, key string, e entry) error {
	e.Pending = false
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return l.rdb.Set(ctx, key, payload, l.ttl).Err()
}

func (l *ledger) release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}
