// Package memory is an in-process record.Store. It backs STORE_DRIVER=memory
// and the usecase tests.
package memory

import (
	"context"
	"sync"

	"growvest-backend/internal/domain/record"
)

type RecordStore struct {
	mu    sync.RWMutex
	data  map[record.Type]map[string][]byte
	order map[record.Type][]string
}

var _ record.Store = (*RecordStore)(nil)

func NewRecordStore() *RecordStore {
	return &RecordStore{
		data:  map[record.Type]map[string][]byte{},
		order: map[record.Type][]string{},
	}
}

func (s *RecordStore) Get(ctx context.Context, t record.Type, key string) (*record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[t][key]
	if !ok {
		return nil, record.ErrNotFound
	}
	return &record.Record{Type: t, Key: key, Payload: clone(p)}, nil
}

func (s *RecordStore) Set(ctx context.Context, rec record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.data[rec.Type]
	if !ok {
		bucket = map[string][]byte{}
		s.data[rec.Type] = bucket
	}
	if _, exists := bucket[rec.Key]; !exists {
		s.order[rec.Type] = append(s.order[rec.Type], rec.Key)
	}
	bucket[rec.Key] = clone(rec.Payload)
	return nil
}

func (s *RecordStore) List(ctx context.Context, t record.Type) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.order[t]
	out := make([]record.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, record.Record{Type: t, Key: k, Payload: clone(s.data[t][k])})
	}
	return out, nil
}

func (s *RecordStore) Delete(ctx context.Context, t record.Type, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[t][key]; !ok {
		return nil
	}
	delete(s.data[t], key)
	keys := s.order[t]
	for i, k := range keys {
		if k == key {
			s.order[t] = append(keys[:i:i], keys[i+1:]...)
			break
		}
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
