package redisrepo

import (
	"context"
	"errors"

	"growvest-backend/internal/domain/record"

	"github.com/redis/go-redis/v9"
)

// RecordStore keeps one hash of payloads per record type and a sorted set
// scored by a global sequence to remember insertion order.
type RecordStore struct {
	rdb    *redis.Client
	prefix string
}

var _ record.Store = (*RecordStore)(nil)

func NewRecordStore(rdb *redis.Client, prefix string) *RecordStore {
	if prefix == "" {
		prefix = "growvest"
	}
	return &RecordStore{rdb: rdb, prefix: prefix}
}

func (s *RecordStore) dataKey(t record.Type) string  { return s.prefix + ":rec:" + string(t) }
func (s *RecordStore) orderKey(t record.Type) string { return s.prefix + ":ord:" + string(t) }
func (s *RecordStore) seqKey() string                { return s.prefix + ":seq" }

func (s *RecordStore) Get(ctx context.Context, t record.Type, key string) (*record.Record, error) {
	v, err := s.rdb.HGet(ctx, s.dataKey(t), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record.Record{Type: t, Key: key, Payload: v}, nil
}

func (s *RecordStore) Set(ctx context.Context, rec record.Record) error {
	seq, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		// NX keeps the original position for overwrites
		p.ZAddNX(ctx, s.orderKey(rec.Type), redis.Z{Score: float64(seq), Member: rec.Key})
		p.HSet(ctx, s.dataKey(rec.Type), rec.Key, rec.Payload)
		return nil
	})
	return err
}

func (s *RecordStore) List(ctx context.Context, t record.Type) ([]record.Record, error) {
	keys, err := s.rdb.ZRange(ctx, s.orderKey(t), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []record.Record{}, nil
	}
	vals, err := s.rdb.HMGet(ctx, s.dataKey(t), keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(keys))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // ordered key without payload
		}
		out = append(out, record.Record{Type: t, Key: keys[i], Payload: []byte(str)})
	}
	return out, nil
}

func (s *RecordStore) Delete(ctx context.Context, t record.Type, key string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, s.dataKey(t), key)
		p.ZRem(ctx, s.orderKey(t), key)
		return nil
	})
	return err
}
